package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/ledger"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/shop"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/store/storetest"
	"storefront_back_end/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memImages struct{}

func (memImages) Upload(_ context.Context, productID string, files []*multipart.FileHeader) ([]models.Image, error) {
	images := make([]models.Image, len(files))
	for i, fh := range files {
		key := "products/" + productID + "/" + fh.Filename
		images[i] = models.Image{ObjectKey: key, URL: "http://img.local/" + key, Position: i}
	}
	return images, nil
}

func (memImages) RemoveQuietly(context.Context, []string) {}

// fakeLedger garde en mémoire le dernier filtre d'audit reçu.
type fakeLedger struct {
	logs   []models.AuditLog
	filter ledger.AuditFilter
	limit  int
}

func (*fakeLedger) Movements(context.Context, string, int) ([]models.StockMovement, error) {
	return []models.StockMovement{}, nil
}

func (f *fakeLedger) AuditLogs(_ context.Context, filter ledger.AuditFilter, limit int) ([]models.AuditLog, error) {
	f.filter, f.limit = filter, limit
	return f.logs, nil
}

type response struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    apperr.Code     `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t      *testing.T
	router *gin.Engine
	store  *store.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	return newServerWithLedger(t, nil)
}

func newServerWithLedger(t *testing.T, reader admin.LedgerReader) *server {
	t.Helper()
	s := storetest.Open(t)
	log := zap.NewNop()

	tokens := utils.NewJWTManager("test-secret", time.Hour)
	accounts := shop.NewAccounts(s, tokens, nil)
	carts := shop.NewCarts(s)
	orders := shop.NewOrders(s, nil, nil, log)
	catalog := shop.NewCatalog(s, memImages{}, nil, log)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Tokens:   tokens,
		Identity: accounts,
		Health:   s,
		User:     user.New(accounts, carts, orders),
		Product:  product.New(catalog),
		Admin:    admin.New(accounts, orders, reader),
	})
	return &server{t: t, router: r, store: s}
}

func (s *server) do(method, path, token string, body any) (*httptest.ResponseRecorder, response) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(req, token)
}

func (s *server) serve(req *http.Request, token string) (*httptest.ResponseRecorder, response) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var res response
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	}
	return w, res
}

// signup inscrit puis connecte l'utilisateur et renvoie son jeton.
func (s *server) signup(email, password string, role models.Role) string {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/register", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusCreated, w.Code)

	if role == models.RoleAdmin {
		u, err := s.store.FindUserByEmail(context.Background(), email)
		require.NoError(s.t, err)
		require.NoError(s.t, s.store.UpdateUser(context.Background(), u.ID, map[string]any{"role": role}))
	}

	w, res := s.do(http.MethodPost, "/api/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code)
	var login shop.LoginResult
	require.NoError(s.t, json.Unmarshal(res.Data, &login))
	require.Equal(s.t, role, login.Payload.Role)
	return login.Token
}

func decodeData[T any](t *testing.T, res response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(res.Data, &v))
	return v
}

func TestCheckoutScenario(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	p1 := storetest.SeedProduct(t, srv.store, "P1", 100, 5)

	token := srv.signup("alice@x.com", "secret1", models.RoleCustomer)

	w, res := srv.do(http.MethodPost, "/api/user/cart", token, gin.H{
		"cart": []gin.H{{"productId": p1.ID, "count": 2, "price": 100}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, res.Status)

	w, res = srv.do(http.MethodGet, "/api/user/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decodeData[models.Cart](t, res)
	assert.Equal(t, int64(200), cart.CartTotal)
	require.Len(t, cart.Lines, 1)
	require.NotNil(t, cart.Lines[0].Product)
	assert.Equal(t, "P1", cart.Lines[0].Product.Title)

	w, res = srv.do(http.MethodPost, "/api/user/order", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decodeData[models.Order](t, res)
	assert.Equal(t, int64(200), order.CartTotal)
	assert.Equal(t, models.OrderStatusNotProcess, order.OrderStatus)

	stored, err := srv.store.FindProduct(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
	assert.Equal(t, 2, stored.Sold)

	w, res = srv.do(http.MethodGet, "/api/user/cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.CodeNotFound, res.Code)

	w, res = srv.do(http.MethodGet, "/api/user/order", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeData[[]models.Order](t, res)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(200), orders[0].CartTotal)

	w, res = srv.do(http.MethodPost, "/api/user/order", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeEmptyCart, res.Code)
}

func TestCartRejectsOverdraw(t *testing.T) {
	srv := newServer(t)
	p1 := storetest.SeedProduct(t, srv.store, "Lamp", 100, 1)
	token := srv.signup("bob@x.com", "pw", models.RoleCustomer)

	w, res := srv.do(http.MethodPost, "/api/user/cart", token, gin.H{
		"cart": []gin.H{{"productId": p1.ID, "count": 2, "price": 100}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeInsufficientStock, res.Code)

	w, _ = srv.do(http.MethodGet, "/api/user/cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = srv.do(http.MethodDelete, "/api/user/cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmptyCartHasNoBody(t *testing.T) {
	srv := newServer(t)
	p1 := storetest.SeedProduct(t, srv.store, "Mug", 50, 10)
	token := srv.signup("carol@x.com", "pw", models.RoleCustomer)

	w, _ := srv.do(http.MethodPost, "/api/user/cart", token, gin.H{
		"cart": []gin.H{{"productId": p1.ID, "count": 1, "price": 50}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = srv.do(http.MethodDelete, "/api/user/cart", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newServer(t)

	w, res := srv.do(http.MethodPost, "/api/register", "", gin.H{"password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email is required", res.Message)

	srv.signup("dave@x.com", "pw", models.RoleCustomer)

	w, res = srv.do(http.MethodPost, "/api/register", "", gin.H{"email": "DAVE@x.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeConflict, res.Code)

	w, res = srv.do(http.MethodPost, "/api/login", "", gin.H{"email": "dave@x.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password invalid", res.Message)

	w, _ = srv.do(http.MethodPost, "/api/login", "", gin.H{"email": "nobody@x.com", "password": "pw"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccessControl(t *testing.T) {
	srv := newServer(t)
	customer := srv.signup("erin@x.com", "pw", models.RoleCustomer)
	root := srv.signup("root@x.com", "pw", models.RoleAdmin)

	w, _ := srv.do(http.MethodGet, "/api/user/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = srv.do(http.MethodGet, "/api/users", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = srv.do(http.MethodPost, "/api/current-admin", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, res := srv.do(http.MethodPost, "/api/current-admin", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root@x.com", decodeData[models.User](t, res).Email)

	w, res = srv.do(http.MethodGet, "/api/users", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeData[[]models.User](t, res)
	require.Len(t, users, 2)

	var erinID string
	for _, u := range users {
		if u.Email == "erin@x.com" {
			erinID = u.ID
		}
	}
	require.NotEmpty(t, erinID)

	w, _ = srv.do(http.MethodPost, "/api/change-status", root, gin.H{"id": erinID, "enabled": false})
	require.Equal(t, http.StatusOK, w.Code)

	w, res = srv.do(http.MethodPost, "/api/current-user", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperr.CodeForbidden, res.Code)

	w, _ = srv.do(http.MethodPost, "/api/login", "", gin.H{"email": "erin@x.com", "password": "pw"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, res = srv.do(http.MethodPost, "/api/change-role", root, gin.H{"id": erinID, "role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeValidation, res.Code)
}

func TestOrderStatusFlow(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	p1 := storetest.SeedProduct(t, srv.store, "Chair", 300, 4)
	customer := srv.signup("fay@x.com", "pw", models.RoleCustomer)
	root := srv.signup("root@x.com", "pw", models.RoleAdmin)

	w, _ := srv.do(http.MethodPost, "/api/user/cart", customer, gin.H{
		"cart": []gin.H{{"productId": p1.ID, "count": 3, "price": 300}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w, res := srv.do(http.MethodPost, "/api/user/order", customer, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	order := decodeData[models.Order](t, res)

	w, res = srv.do(http.MethodGet, "/api/admin/orders", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeData[[]models.Order](t, res)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].OrderedBy)
	assert.Equal(t, "fay@x.com", all[0].OrderedBy.Email)

	w, res = srv.do(http.MethodGet, "/api/admin/order-status", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	table := decodeData[map[models.OrderStatus][]models.OrderStatus](t, res)
	assert.ElementsMatch(t, []models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusCancelled}, table[models.OrderStatusNotProcess])

	w, _ = srv.do(http.MethodPut, "/api/admin/order-status", root, gin.H{"orderId": order.ID, "orderStatus": "Cancelled"})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := srv.store.FindProduct(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Quantity)
	assert.Equal(t, 0, stored.Sold)

	w, res = srv.do(http.MethodPut, "/api/admin/order-status", root, gin.H{"orderId": order.ID, "orderStatus": "Processing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeInvalidTransition, res.Code)

	w, _ = srv.do(http.MethodGet, "/api/admin/stock-movements?productId="+p1.ID, root, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartProduct(t *testing.T, method, path string, fields map[string]string, images ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range images {
		part, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCatalogAdmin(t *testing.T) {
	srv := newServer(t)
	root := srv.signup("root@x.com", "pw", models.RoleAdmin)

	w, res := srv.do(http.MethodPost, "/api/category", root, gin.H{"name": "Furniture"})
	require.Equal(t, http.StatusCreated, w.Code)
	category := decodeData[models.Category](t, res)

	req := multipartProduct(t, http.MethodPost, "/api/product", map[string]string{
		"title":       "Oak table",
		"description": "solid oak",
		"price":       "15000",
		"quantity":    "3",
		"categoryId":  category.ID,
	}, "front.png", "side.jpg")
	w, res = srv.serve(req, root)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData[models.Product](t, res)
	assert.Equal(t, int64(15000), created.Price)
	require.Len(t, created.Images, 2)
	assert.Equal(t, "products/"+created.ID+"/front.png", created.Images[0].ObjectKey)

	req = multipartProduct(t, http.MethodPost, "/api/product", map[string]string{"title": "No image", "price": "1"})
	w, res = srv.serve(req, root)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeValidation, res.Code)

	req = multipartProduct(t, http.MethodPut, "/api/product/"+created.ID, map[string]string{
		"title": "Oak table XL", "price": "18000", "quantity": "2",
	})
	w, res = srv.serve(req, root)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeData[models.Product](t, res)
	assert.Equal(t, "Oak table XL", updated.Title)
	assert.Len(t, updated.Images, 2)

	w, res = srv.do(http.MethodPost, "/api/search/filters", "", gin.H{"query": "oak"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]models.Product](t, res), 1)

	w, res = srv.do(http.MethodPost, "/api/search/filters", "", gin.H{"price": []int64{100, 200}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]models.Product](t, res))

	w, _ = srv.do(http.MethodPost, "/api/search/filters", "", gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, res = srv.do(http.MethodGet, "/api/products/10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]models.Product](t, res), 1)

	w, _ = srv.do(http.MethodDelete, "/api/product/"+created.ID, root, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = srv.do(http.MethodGet, "/api/product/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = srv.do(http.MethodDelete, "/api/category/"+category.ID, root, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, res = srv.do(http.MethodGet, "/api/category", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]models.Category](t, res))
}

func TestAuditLogs(t *testing.T) {
	t.Run("without ledger", func(t *testing.T) {
		srv := newServer(t)
		root := srv.signup("root@x.com", "pw", models.RoleAdmin)

		w, res := srv.do(http.MethodGet, "/api/admin/audit-logs", root, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "audit log is not configured", res.Message)
	})

	t.Run("filters are forwarded", func(t *testing.T) {
		fake := &fakeLedger{logs: []models.AuditLog{
			{UserID: "u-1", Action: models.ActionOrderStatus, Resource: models.ResourceOrder, Success: false, Timestamp: time.Now()},
		}}
		srv := newServerWithLedger(t, fake)
		customer := srv.signup("gil@x.com", "pw", models.RoleCustomer)
		root := srv.signup("root@x.com", "pw", models.RoleAdmin)

		w, _ := srv.do(http.MethodGet, "/api/admin/audit-logs", customer, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, res := srv.do(http.MethodGet, "/api/admin/audit-logs?user_id=u-1&resource=order&success=false&limit=5", root, nil)
		require.Equal(t, http.StatusOK, w.Code)
		logs := decodeData[[]models.AuditLog](t, res)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionOrderStatus, logs[0].Action)

		assert.Equal(t, "u-1", fake.filter.UserID)
		assert.Equal(t, models.ResourceOrder, fake.filter.Resource)
		assert.Empty(t, fake.filter.Action)
		require.NotNil(t, fake.filter.Success)
		assert.False(t, *fake.filter.Success)
		assert.Equal(t, 5, fake.limit)

		w, _ = srv.do(http.MethodGet, "/api/admin/audit-logs?success=maybe", root, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthz(t *testing.T) {
	srv := newServer(t)
	w, res := srv.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.Status)
}
