package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"storefront_back_end/internal/config"
)

// ScyllaManager garde une session ScyllaDB et la recrée si elle ne répond plus.
type ScyllaManager struct {
	cfg     config.ScyllaConfig
	session *gocql.Session
	mu      sync.Mutex
}

func NewScyllaManager(cfg config.ScyllaConfig) (*ScyllaManager, error) {
	sm := &ScyllaManager{cfg: cfg}
	if _, err := sm.Session(); err != nil {
		return nil, err
	}
	return sm, nil
}

func createScyllaCluster(cfg config.ScyllaConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = cfg.NumConns
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = time.Second
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

// Session renvoie la session courante, après un ping sur system.local.
func (sm *ScyllaManager) Session() (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.session != nil {
		if err := sm.session.Query("SELECT now() FROM system.local").Exec(); err == nil {
			return sm.session, nil
		}
		sm.session.Close()
		sm.session = nil
	}

	session, err := createScyllaCluster(sm.cfg).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("création session scylla (%s): %w", sm.cfg.Keyspace, err)
	}
	sm.session = session
	zap.L().Info("nouvelle session ScyllaDB", zap.String("keyspace", sm.cfg.Keyspace))
	return session, nil
}

func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.session != nil {
		sm.session.Close()
		sm.session = nil
	}
}
