// Package store est la couche d'accès PostgreSQL (gorm) de la boutique.
package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_back_end/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type txKey struct{}

// Store regroupe tous les dépôts. Les méthodes utilisent la transaction
// portée par le contexte quand il y en a une.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

// Transaction exécute fn dans une transaction. Un appel imbriqué réutilise la transaction en cours.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// LockUser pose un verrou de ligne sur l'utilisateur (SELECT ... FOR UPDATE)
// jusqu'à la fin de la transaction courante.
func (s *Store) LockUser(ctx context.Context, userID string) error {
	var user models.User
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", userID).
		Take(&user).Error
	return translate(err, "lock user")
}

func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Image{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
	)
	return errors.Wrap(err, "auto migrate")
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return errors.Wrap(err, op)
	}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
