package database

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront_back_end/internal/config"
)

// Connections regroupe les clients ouverts au démarrage. Les backends
// optionnels restent nil quand ils ne sont pas configurés ou injoignables.
type Connections struct {
	DB      *gorm.DB
	Scylla  *ScyllaManager
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// Connect ouvre PostgreSQL (obligatoire) puis les backends optionnels.
func Connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := ConnectPostgres(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	conns := &Connections{DB: db}
	log.Info("✅ connecté à PostgreSQL")

	if cfg.Scylla.Enabled() {
		if conns.Scylla, err = NewScyllaManager(cfg.Scylla); err != nil {
			log.Warn("ScyllaDB indisponible, journal de stock désactivé", zap.Error(err))
		} else {
			log.Info("✅ connecté à ScyllaDB", zap.Strings("hosts", cfg.Scylla.Hosts))
		}
	}

	if cfg.Redis.Enabled() {
		if conns.Redis, err = ConnectRedis(ctx, cfg.Redis); err != nil {
			log.Warn("Redis indisponible, cache et limites désactivés", zap.Error(err))
		} else {
			log.Info("✅ connecté à Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	if cfg.Elastic.Enabled() {
		if conns.Elastic, err = ConnectElastic(cfg.Elastic); err != nil {
			log.Warn("Elasticsearch indisponible, recherche SQL uniquement", zap.Error(err))
		} else {
			log.Info("✅ connecté à Elasticsearch", zap.String("url", cfg.Elastic.URL))
		}
	}

	if cfg.MinIO.Enabled() {
		if conns.MinIO, err = ConnectMinIO(ctx, cfg.MinIO); err != nil {
			log.Warn("MinIO indisponible, upload d'images désactivé", zap.Error(err))
		} else {
			log.Info("✅ connecté à MinIO", zap.String("endpoint", cfg.MinIO.Endpoint), zap.String("bucket", cfg.MinIO.Bucket))
		}
	}

	return conns, nil
}

func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// =============================================
// POSTGRES
// =============================================

func ConnectPostgres(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connexion postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// =============================================
// REDIS
// =============================================

func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connexion redis: %w", err)
	}
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func ConnectElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("client elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("connexion elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("connexion elasticsearch: %s", res.Status())
	}
	return client, nil
}

// =============================================
// MINIO
// =============================================

func ConnectMinIO(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("client minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("vérification bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("création bucket %s: %w", cfg.Bucket, err)
		}
		zap.L().Info("🪣 bucket créé", zap.String("bucket", cfg.Bucket))
	}
	return client, nil
}
