package shop

import (
	"context"
	"errors"
	"strings"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/utils"
)

type TokenIssuer interface {
	Generate(claims models.Claims) (string, error)
}

type UserCache interface {
	Get(ctx context.Context, id string) (*models.User, bool)
	Set(ctx context.Context, user *models.User)
	Invalidate(ctx context.Context, id string)
}

type LoginResult struct {
	Payload models.Claims `json:"payload"`
	Token   string        `json:"token"`
}

type Accounts struct {
	store  UserStore
	tokens TokenIssuer
	cache  UserCache
}

// NewAccounts accepte un cache nil quand Redis n'est pas configuré.
func NewAccounts(s UserStore, tokens TokenIssuer, cache UserCache) *Accounts {
	return &Accounts{store: s, tokens: tokens, cache: cache}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Accounts) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if password == "" {
		return nil, apperr.Validation("password is required")
	}

	if _, err := a.store.FindUserByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     strings.TrimSpace(name),
		Role:     models.RoleCustomer,
		Enabled:  true,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (a *Accounts) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if password == "" {
		return nil, apperr.Validation("password is required")
	}

	user, err := a.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "user not found or not enabled")
	}
	if !user.Enabled {
		return nil, apperr.NotFound("user not found or not enabled")
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Validation("password invalid")
	}

	claims := models.Claims{ID: user.ID, Email: user.Email, Role: user.Role}
	token, err := a.tokens.Generate(claims)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &LoginResult{Payload: claims, Token: token}, nil
}

func (a *Accounts) Current(ctx context.Context, id string) (*models.User, error) {
	user, err := a.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return user, nil
}

// Identity est la lecture faite par le contrôle d'accès : cache Redis puis base.
func (a *Accounts) Identity(ctx context.Context, id string) (*models.User, error) {
	if a.cache != nil {
		if user, ok := a.cache.Get(ctx, id); ok {
			return user, nil
		}
	}
	user, err := a.Current(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		a.cache.Set(ctx, user)
	}
	return user, nil
}

func (a *Accounts) Users(ctx context.Context) ([]models.User, error) {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (a *Accounts) ChangeStatus(ctx context.Context, id string, enabled bool) (*models.User, error) {
	if id == "" {
		return nil, apperr.Validation("id is required")
	}
	return a.update(ctx, id, map[string]any{"enabled": enabled})
}

func (a *Accounts) ChangeRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	if id == "" {
		return nil, apperr.Validation("id is required")
	}
	if !role.Valid() {
		return nil, apperr.Validation("role must be customer or admin")
	}
	return a.update(ctx, id, map[string]any{"role": role})
}

func (a *Accounts) SaveAddress(ctx context.Context, id, address string) (*models.User, error) {
	if strings.TrimSpace(address) == "" {
		return nil, apperr.Validation("address is required")
	}
	return a.update(ctx, id, map[string]any{"address": strings.TrimSpace(address)})
}

func (a *Accounts) update(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	if err := a.store.UpdateUser(ctx, id, fields); err != nil {
		return nil, notFound(err, "user not found")
	}
	if a.cache != nil {
		a.cache.Invalidate(ctx, id)
	}
	return a.Current(ctx, id)
}
