package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
	"github.com/TheEmeraldArt/BookNoteProject/config"
	"github.com/TheEmeraldArt/BookNoteProject/server"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("booknote"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("main")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DatabaseURL)))
	sqldb.SetMaxOpenConns(cfg.DBMaxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	if err := booknote.CreateTables(ctx, db); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	repo := booknote.NewRepositoryManager(db)
	hasher := booknote.NewPasswordHasher(cfg.BcryptCost)
	provider := booknote.NewUserProvider(repo.Users(), hasher).
		WithLogger(lgr.GetLogger("identity"))
	tokens := booknote.NewTokenService([]byte(cfg.SecretKey), cfg.TokenTTL(), "booknote").
		WithLogger(lgr.GetLogger("tokens"))
	auther := booknote.NewAuthenticator(provider, tokens).
		WithLogger(lgr.GetLogger("auth"))
	sessions := booknote.NewSessionProvider(db).
		WithLogger(lgr.GetLogger("session"))

	srv := server.New(server.Config{
		Repo:     repo,
		Sessions: sessions,
		Auther:   auther,
		Hasher:   hasher,
		Logger:   lgr.GetLogger("http"),
	})

	go func() {
		logger.Info("listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.Listen(cfg.Addr); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	sig := WaitExitSignal()
	logger.Info("shutting down", "signal", sig.String())

	if err := srv.Shutdown(); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
