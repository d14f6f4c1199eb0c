package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/cinelist/cinelist-go/internal/catalog"
	"github.com/cinelist/cinelist-go/internal/config"
	"github.com/cinelist/cinelist-go/internal/handler"
	"github.com/cinelist/cinelist-go/internal/identity"
	"github.com/cinelist/cinelist-go/internal/lock"
	"github.com/cinelist/cinelist-go/internal/repository"
	"github.com/cinelist/cinelist-go/internal/repository/memory"
	"github.com/cinelist/cinelist-go/internal/service"
)

const lockTTL = 10 * time.Second

type stores struct {
	users   service.UserStore
	entries service.EntryStore
	shares  service.ShareStore
	db      *sql.DB
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg)
	if err != nil {
		slog.Error("storage setup failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	if st.db != nil {
		defer st.db.Close()
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		slog.Error("identity provider setup failed", "provider", cfg.IdentityProvider, "error", err)
		os.Exit(1)
	}

	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		slog.Error("lock setup failed", "error", err)
		os.Exit(1)
	}
	defer closeLocker()

	tmdb := catalog.NewClient(catalog.Options{
		APIKey:   cfg.TMDBAPIKey,
		BaseURL:  cfg.TMDBBaseURL,
		Language: cfg.TMDBLanguage,
		Region:   cfg.TMDBRegion,
		Timeout:  cfg.TMDBTimeout,
	})

	router := handler.NewRouter(handler.RouterConfig{
		Logger:         logger,
		Verifier:       verifier,
		Users:          service.NewUserService(st.users),
		Status:         service.NewStatusService(st.entries, locker),
		Shares:         service.NewShareService(st.shares, st.entries),
		Catalog:        tmdb,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		PublicRPS:      cfg.PublicRateLimitRPS,
		PublicBurst:    cfg.PublicRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env,
			"storage", cfg.StorageDriver, "identity", cfg.IdentityProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		})
	}

	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

func openStores(cfg config.Config) (stores, error) {
	if cfg.StorageDriver == config.StorageMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		return stores{
			users:   memory.NewUserRepo(),
			entries: memory.NewEntryRepo(),
			shares:  memory.NewShareRepo(),
		}, nil
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return stores{}, err
	}
	if err := repository.Migrate(db); err != nil {
		db.Close()
		return stores{}, err
	}

	return stores{
		users:   repository.NewUserRepository(db),
		entries: repository.NewEntryRepository(db),
		shares:  repository.NewShareRepository(db),
		db:      db,
	}, nil
}

func newVerifier(ctx context.Context, cfg config.Config) (identity.Verifier, error) {
	if cfg.IdentityProvider == config.ProviderLocal {
		slog.Warn("using local identity provider, tokens are signed with LOCAL_TOKEN_SECRET")
		return identity.NewLocalVerifier(cfg.LocalTokenSecret), nil
	}

	projectID, err := identity.LoadProjectID(cfg.IdentityCredentialsPath)
	if err != nil {
		return nil, err
	}
	return identity.NewFirebaseVerifier(ctx, projectID), nil
}

func newLocker(ctx context.Context, cfg config.Config) (lock.Locker, func(), error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return lock.NewKeyed(), func() {}, nil
	}

	client, err := lock.NewRedisClient(ctx, lock.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	return lock.NewRedis(client, lockTTL), func() { client.Close() }, nil
}
