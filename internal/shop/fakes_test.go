package shop

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"

	"go.uber.org/zap"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/store/storetest"
)

type fakeLedger struct {
	mu        sync.Mutex
	movements []models.StockMovement
}

func (f *fakeLedger) RecordMovements(_ context.Context, m []models.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movements = append(f.movements, m...)
	return nil
}

func (f *fakeLedger) all() []models.StockMovement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.StockMovement(nil), f.movements...)
}

type sentMail struct {
	to    string
	order *models.Order
}

type fakeMailer struct {
	sent chan sentMail
}

func newFakeMailer() *fakeMailer { return &fakeMailer{sent: make(chan sentMail, 8)} }

func (f *fakeMailer) SendOrderConfirmation(_ context.Context, to string, order *models.Order) error {
	f.sent <- sentMail{to: to, order: order}
	return nil
}

type fakeImages struct {
	mu      sync.Mutex
	removed []string
	fail    bool
}

func (f *fakeImages) Upload(_ context.Context, productID string, files []*multipart.FileHeader) ([]models.Image, error) {
	if f.fail {
		return nil, errors.New("bucket unavailable")
	}
	images := make([]models.Image, len(files))
	for i, fh := range files {
		key := "products/" + productID + "/" + fh.Filename
		images[i] = models.Image{ObjectKey: key, URL: "http://img/" + key, Position: i}
	}
	return images, nil
}

func (f *fakeImages) RemoveQuietly(_ context.Context, keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, keys...)
}

type fakeSearch struct {
	mu      sync.Mutex
	indexed map[string]string
	deleted []string
	hits    []string
	err     error
}

func newFakeSearch() *fakeSearch { return &fakeSearch{indexed: map[string]string{}} }

func (f *fakeSearch) Index(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[p.ID] = p.Title
	return nil
}

func (f *fakeSearch) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearch) Search(context.Context, string) ([]string, error) {
	return f.hits, f.err
}

type fakeCache struct {
	mu    sync.Mutex
	users map[string]models.User
	hits  int
}

func newFakeCache() *fakeCache { return &fakeCache{users: map[string]models.User{}} }

func (f *fakeCache) Get(_ context.Context, id string) (*models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if ok {
		f.hits++
	}
	return &u, ok
}

func (f *fakeCache) Set(_ context.Context, u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = *u
}

func (f *fakeCache) Invalidate(_ context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

type fixture struct {
	store   *store.Store
	ledger  *fakeLedger
	mailer  *fakeMailer
	carts   *Carts
	orders  *Orders
	catalog *Catalog
	images  *fakeImages
	search  *fakeSearch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := storetest.Open(t)
	f := &fixture{
		store:  s,
		ledger: &fakeLedger{},
		mailer: newFakeMailer(),
		images: &fakeImages{},
		search: newFakeSearch(),
	}
	f.carts = NewCarts(s)
	f.orders = NewOrders(s, f.ledger, f.mailer, zap.NewNop())
	f.catalog = NewCatalog(s, f.images, f.search, zap.NewNop())
	return f
}
