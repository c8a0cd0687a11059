// Package ledger écrit le journal des mouvements de stock et les logs d'audit dans ScyllaDB.
package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"storefront_back_end/internal/models"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stock_movements (
		product_id text,
		id timeuuid,
		order_id text,
		user_id text,
		type text,
		quantity int,
		reason text,
		created_at timestamp,
		PRIMARY KEY (product_id, id)
	) WITH CLUSTERING ORDER BY (id DESC)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id timeuuid PRIMARY KEY,
		user_id text,
		user_email text,
		action text,
		resource text,
		resource_id text,
		ip_address text,
		user_agent text,
		success boolean,
		error_msg text,
		timestamp timestamp
	)`,
}

// SessionProvider renvoie une session valide (voir database.ScyllaManager).
type SessionProvider interface {
	Session() (*gocql.Session, error)
}

type Ledger struct {
	sessions SessionProvider
}

func New(sessions SessionProvider) *Ledger {
	return &Ledger{sessions: sessions}
}

func (l *Ledger) Migrate(ctx context.Context) error {
	session, err := l.sessions.Session()
	if err != nil {
		return err
	}
	for _, stmt := range schema {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return errors.Wrap(err, "create ledger table")
		}
	}
	return nil
}

// RecordMovements écrit les mouvements d'une commande dans un batch non journalisé.
func (l *Ledger) RecordMovements(ctx context.Context, movements []models.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	session, err := l.sessions.Session()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, m := range movements {
		if m.ID == (gocql.UUID{}) {
			m.ID = gocql.TimeUUID()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		batch.Query(`INSERT INTO stock_movements (product_id, id, order_id, user_id, type, quantity, reason, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ProductID, m.ID, m.OrderID, m.UserID, string(m.Type), m.Quantity, m.Reason, m.CreatedAt)
	}
	return errors.Wrap(session.ExecuteBatch(batch), "record stock movements")
}

// Movements renvoie les derniers mouvements d'un produit, du plus récent au plus ancien.
func (l *Ledger) Movements(ctx context.Context, productID string, limit int) ([]models.StockMovement, error) {
	session, err := l.sessions.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, id, order_id, user_id, type, quantity, reason, created_at
		FROM stock_movements WHERE product_id = ? LIMIT ?`, productID, ClampLimit(limit)).
		WithContext(ctx).
		Iter()

	var (
		out []models.StockMovement
		m   models.StockMovement
		typ string
	)
	for iter.Scan(&m.ProductID, &m.ID, &m.OrderID, &m.UserID, &typ, &m.Quantity, &m.Reason, &m.CreatedAt) {
		m.Type = models.MovementType(typ)
		out = append(out, m)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrap(err, "list stock movements")
	}
	return out, nil
}

func (l *Ledger) RecordAudit(ctx context.Context, entry models.AuditLog) error {
	session, err := l.sessions.Session()
	if err != nil {
		return err
	}
	if entry.ID == (gocql.UUID{}) {
		entry.ID = gocql.TimeUUID()
	}
	err = session.Query(`INSERT INTO audit_logs (
			id, user_id, user_email, action, resource, resource_id,
			ip_address, user_agent, success, error_msg, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.UserEmail, entry.Action, entry.Resource, entry.ResourceID,
		entry.IPAddress, entry.UserAgent, entry.Success, entry.ErrorMsg, entry.Timestamp,
	).WithContext(ctx).Exec()
	return errors.Wrap(err, "record audit log")
}

// AuditFilter restreint la lecture du journal d'audit. Les champs vides sont ignorés.
type AuditFilter struct {
	UserID   string
	Action   string
	Resource string
	Success  *bool
}

func auditQuery(f AuditFilter, limit int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Action != "" {
		conds = append(conds, "action = ?")
		args = append(args, f.Action)
	}
	if f.Resource != "" {
		conds = append(conds, "resource = ?")
		args = append(args, f.Resource)
	}
	if f.Success != nil {
		conds = append(conds, "success = ?")
		args = append(args, *f.Success)
	}

	query := `SELECT id, user_id, user_email, action, resource, resource_id,
		ip_address, user_agent, success, error_msg, timestamp FROM audit_logs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " LIMIT ?"
	args = append(args, ClampLimit(limit))
	// audit_logs est partitionnée par id : tout filtre porte sur des colonnes hors clé.
	if len(conds) > 0 {
		query += " ALLOW FILTERING"
	}
	return query, args
}

// AuditLogs lit au plus limit entrées du journal d'audit, triées de la plus récente
// à la plus ancienne.
func (l *Ledger) AuditLogs(ctx context.Context, f AuditFilter, limit int) ([]models.AuditLog, error) {
	session, err := l.sessions.Session()
	if err != nil {
		return nil, err
	}

	query, args := auditQuery(f, limit)
	iter := session.Query(query, args...).WithContext(ctx).Iter()

	var (
		out []models.AuditLog
		e   models.AuditLog
	)
	for iter.Scan(&e.ID, &e.UserID, &e.UserEmail, &e.Action, &e.Resource, &e.ResourceID,
		&e.IPAddress, &e.UserAgent, &e.Success, &e.ErrorMsg, &e.Timestamp) {
		out = append(out, e)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrap(err, "list audit logs")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
