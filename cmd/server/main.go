package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/ledger"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/shop"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/utils"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatalf("❌ configuration : %v", err)
	}

	zl, err := logger.Init(cfg.Logger)
	if err != nil {
		log.Fatalf("❌ logger : %v", err)
	}
	defer func() { _ = zl.Sync() }()
	if !envLoaded {
		zl.Info("aucun fichier .env, lecture de l'environnement uniquement")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns, err := database.Connect(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("❌ connexion PostgreSQL", zap.Error(err))
	}
	defer conns.Close()

	db := store.New(conns.DB)
	if err := db.Migrate(ctx); err != nil {
		zl.Fatal("❌ migration", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.Recovery(zl), middleware.RequestLogger(zl))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	routes.RegisterRoutes(router, wire(ctx, cfg, conns, db, zl))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("🚀 serveur lancé", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("❌ serveur HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("arrêt du serveur")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("arrêt forcé", zap.Error(err))
	}
}

// wire construit les services. Les backends absents restent des interfaces
// nil, jamais des pointeurs nil typés.
func wire(ctx context.Context, cfg *config.Config, conns *database.Connections, db *store.Store, zl *zap.Logger) routes.Deps {
	tokens := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	var (
		userCache shop.UserCache
		limiter   middleware.RateLimiter
	)
	if conns.Redis != nil {
		userCache = cache.NewUserCache(conns.Redis)
		limiter = cache.NewLimiter(conns.Redis)
	}

	var (
		stockLedger shop.StockLedger
		audit       middleware.AuditSink
		reader      admin.LedgerReader
	)
	if conns.Scylla != nil {
		l := ledger.New(conns.Scylla)
		if err := l.Migrate(ctx); err != nil {
			zl.Warn("schéma ScyllaDB, journal désactivé", zap.Error(err))
		} else {
			stockLedger, audit, reader = l, l, l
		}
	}

	var search shop.SearchIndex
	if conns.Elastic != nil {
		ix := services.NewProductIndex(conns.Elastic, cfg.Elastic.Index)
		if err := ix.EnsureIndex(ctx); err != nil {
			zl.Warn("index Elasticsearch, recherche SQL uniquement", zap.Error(err))
		} else {
			search = ix
		}
	}

	var images shop.ImageHost
	if conns.MinIO != nil {
		images = services.NewImageStore(conns.MinIO, cfg.MinIO)
	}

	var mailer shop.OrderMailer
	if cfg.SMTP.Enabled() {
		mailer = utils.NewMailer(cfg.SMTP)
	}

	accounts := shop.NewAccounts(db, tokens, userCache)
	carts := shop.NewCarts(db)
	orders := shop.NewOrders(db, stockLedger, mailer, zl)
	catalog := shop.NewCatalog(db, images, search, zl)

	return routes.Deps{
		Tokens:   tokens,
		Identity: accounts,
		Limiter:  limiter,
		Audit:    audit,
		Health:   db,
		User:     user.New(accounts, carts, orders),
		Product:  product.New(catalog),
		Admin:    admin.New(accounts, orders, reader),
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}
