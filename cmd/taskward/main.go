package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/taskward/taskward/auth"
	"github.com/taskward/taskward/config"
	"github.com/taskward/taskward/server"
	"github.com/taskward/taskward/tasks"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("taskward exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := newSlogLogger(level)

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()
	if err := server.EnsureSchema(ctx, db); err != nil {
		return err
	}

	repos := auth.NewRepositoryManager(db)
	repos.MustValidate()

	auth.PasswordHashCost = cfg.Auth.BcryptCost

	tokens := auth.NewTokenService(cfg.Auth.SigningKey(), cfg.Auth.TTL, logger)
	provider := auth.NewUserProvider(repos.Users()).WithLogger(logger)
	authenticator := auth.NewAuthenticator(provider, tokens).WithLogger(logger)
	register := auth.NewRegisterUserHandler(repos)

	taskService := tasks.NewService(tasks.NewTasksRepository(db), logger)

	srv := server.New(server.Deps{
		Auth:     authenticator,
		Register: register,
		Tokens:   tokens,
		Users:    repos.Users(),
		Tasks:    taskService,
		Logger:   logger,
		Debug:    cfg.Debug,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Server.Addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// slogLogger adapts log/slog to the kv logger the other packages use.
type slogLogger struct {
	l *slog.Logger
}

func newSlogLogger(level slog.Level) auth.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slogLogger{l: slog.New(handler)}
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
