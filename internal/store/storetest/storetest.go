// Package storetest ouvre un Store SQLite en mémoire pour les tests.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// Open crée une base isolée par test. Une seule connexion est ouverte :
// les transactions concurrentes sont donc sérialisées.
func Open(t testing.TB) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := store.New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func SeedUser(t testing.TB, s *store.Store, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "x", Role: role, Enabled: true}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func SeedProduct(t testing.TB, s *store.Store, title string, price int64, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{Title: title, Price: price, Quantity: quantity}
	require.NoError(t, s.CreateProduct(context.Background(), product))
	return product
}
