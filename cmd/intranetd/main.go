package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	auth "github.com/goliatone/go-intranet-auth"
	"github.com/goliatone/go-intranet-auth/api"
	"github.com/goliatone/go-intranet-auth/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := auth.OpenAndMigrate(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	authLogger := auth.NewZapLogger(logger.Named("auth"))
	activity := auth.NewLoggerActivitySink(auth.NewZapLogger(logger.Named("activity")))

	auther, err := auth.NewAuthenticator(repo.Users(), cfg)
	if err != nil {
		return err
	}
	auther.WithLogger(authLogger).WithActivitySink(activity)

	users := auth.NewUserService(repo, auther.Hasher()).
		WithLogger(authLogger).
		WithActivitySink(activity)

	app := api.New(api.Options{
		AppName:      cfg.AppName,
		Development:  cfg.IsDevelopment(),
		AllowOrigins: cfg.CORS.AllowOrigins,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ContextKey:   cfg.GetContextKey(),
		Logger:       logger.Named("http"),
		Auther:       auther,
		Users:        users,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.Server.Address()),
			zap.String("environment", cfg.Environment),
			zap.String("db_driver", cfg.Database.Driver),
		)
		errCh <- app.Listen(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
