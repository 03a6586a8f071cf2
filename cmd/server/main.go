package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/jeongwook5013/SecondHand-Shop/internal/config"
	"github.com/jeongwook5013/SecondHand-Shop/internal/events"
	"github.com/jeongwook5013/SecondHand-Shop/internal/httpserver"
	authmw "github.com/jeongwook5013/SecondHand-Shop/internal/middleware"
	"github.com/jeongwook5013/SecondHand-Shop/internal/repo"
	"github.com/jeongwook5013/SecondHand-Shop/internal/search"
	"github.com/jeongwook5013/SecondHand-Shop/internal/service"
	"github.com/jeongwook5013/SecondHand-Shop/internal/upload"
	pkgdb "github.com/jeongwook5013/SecondHand-Shop/pkg/db"
	"github.com/jeongwook5013/SecondHand-Shop/pkg/logging"
	loggingmw "github.com/jeongwook5013/SecondHand-Shop/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = gormRepo.Migrate(migrateCtx)
	migrateCancel()
	if err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	indexer, err := search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
	if err != nil {
		log.Fatalf("search init: %v", err)
	}

	fileStore := &upload.FileStore{Dir: cfg.UploadDir, MaxSize: cfg.UploadMaxSize}
	tokens := &service.TokenService{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}

	userSvc := &service.UserService{Repo: gormRepo, Tokens: tokens, Events: producer}
	catalogSvc := &service.CatalogService{
		Repo:    gormRepo,
		Uploads: fileStore,
		Index:   indexer,
		Events:  producer,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		UserHandler:    &httpserver.UserHTTP{Svc: userSvc},
		ProductHandler: &httpserver.ProductHTTP{Svc: catalogSvc, Uploads: fileStore},
		Auth:           authmw.NewBearerAuth(tokens),
		UploadDir:      cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Printf("%s stopped", cfg.ServiceName)
}
