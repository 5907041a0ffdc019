// Package server initializes and runs the auth server: it picks storage
// backends from config, wires the services, and serves gRPC until a
// shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/sessions"
	"github.com/dmitrijs2005/gophauth/internal/server/tokens"
	"github.com/dmitrijs2005/gophauth/internal/server/users"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	closers     []io.Closer
}

// NewApp validates c and builds every component. Resources opened before
// a failure are released.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (_ *App, err error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	app := &App{config: c, logger: logger}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	accountRepo, sessionStore, err := app.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewHasher(c.Hasher, c.BcryptCost)
	if err != nil {
		return nil, err
	}

	codec, err := tokens.NewCodec(tokens.CodecConfig{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		AccessTTL:     c.AccessTokenValidityDuration,
		RefreshTTL:    c.RefreshTokenValidityDuration,
		Issuer:        "gophauth",
	})
	if err != nil {
		return nil, err
	}

	notifier, err := notify.NewSender(ctx, notify.Config{
		Kind:         c.Notifier,
		From:         c.MailFrom,
		ResendAPIKey: c.ResendAPIKey,
		S3: notify.S3Config{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Prefix:       c.MailDropPrefix,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("notifier init error: %w", err)
	}

	app.userService = users.NewService(users.Deps{
		Accounts: accounts.NewMachine(accountRepo, hasher, accounts.RequireActivation(c.RequireActivation)),
		Sessions: sessionStore,
		Codec:    codec,
		Notifier: notifier,
		Logger:   logger,
	}, users.Options{APIURL: c.APIURL, ClientURL: c.ClientURL})

	return app, nil
}

// initStorage opens the account and session backends named in config.
func (app *App) initStorage(ctx context.Context) (accounts.Repository, sessions.Store, error) {
	c := app.config
	mem := repomanager.NewInMemoryRepositoryManager()

	var pg *repomanager.PostgresRepositoryManager
	if c.StorageBackend == config.BackendPostgres || c.SessionBackend == config.BackendPostgres {
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		pg = repomanager.NewPostgresRepositoryManager(db)
		app.closers = append(app.closers, pg)

		if err := pg.RunMigrations(ctx); err != nil {
			return nil, nil, err
		}
	}

	accountRepo := mem.Accounts()
	if c.StorageBackend == config.BackendPostgres {
		accountRepo = pg.Accounts()
	}

	switch c.SessionBackend {
	case config.BackendPostgres:
		return accountRepo, pg.Sessions(), nil
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		app.closers = append(app.closers, rdb)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping error: %w", err)
		}
		return accountRepo, sessions.NewRedisStore(rdb), nil
	default:
		return accountRepo, mem.Sessions(), nil
	}
}

func (app *App) close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage connections.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.close(); err != nil {
		app.logger.Error(ctx, "close storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
