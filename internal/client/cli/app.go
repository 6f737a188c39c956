package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/profilekeeper/internal/client/config"
	"github.com/dmitrijs2005/profilekeeper/internal/client/remote"
	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/client/session"
	"github.com/dmitrijs2005/profilekeeper/internal/client/storage"
	"github.com/dmitrijs2005/profilekeeper/internal/directory"
	"github.com/dmitrijs2005/profilekeeper/internal/filex"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// redisKeyPrefix namespaces the client keys in a shared Redis.
const redisKeyPrefix = "profilekeeper:"

type App struct {
	config   *config.Config
	logger   logging.Logger
	facade   *services.Facade
	profile  *services.ProfileService
	settings *services.SettingsService
	reader   *bufio.Reader
	out      io.Writer
	closers  []func() error
}

// NewApp builds the client from c: the local store, the user source and
// the services on top of them. Logs go to stderr so they do not mix with
// the REPL.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{
		config: c,
		logger: logging.NewTextLogger(os.Stderr, level),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	repo, err := app.openRepository(ctx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error initializing local store: %w", err)
	}

	source, delay, err := app.openSource()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error initializing user source: %w", err)
	}

	app.wire(repo, source, delay)
	return app, nil
}

// wire builds the services on top of repo and source.
func (a *App) wire(repo metadata.Repository, source services.UserSource, delay time.Duration) {
	store := session.NewStore(repo, a.logger)
	auth := services.NewAuthService(source, store, delay, a.logger)
	a.facade = services.NewFacade(auth, store, a.logger)
	a.profile = services.NewProfileService(a.facade, source, a.logger)
	a.settings = services.NewSettingsService(repo, a.logger)
}

func (a *App) openRepository(ctx context.Context) (metadata.Repository, error) {
	switch a.config.KVBackend {
	case config.KVRedis:
		rdb := redis.NewClient(&redis.Options{Addr: a.config.RedisAddr})
		a.closers = append(a.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return metadata.NewRedisRepository(rdb, redisKeyPrefix), nil
	default:
		if err := filex.EnsureParentDir(a.config.DatabasePath); err != nil {
			return nil, err
		}
		db, err := storage.Open(ctx, a.config.DatabasePath, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return metadata.NewSQLiteRepository(db), nil
	}
}

// openSource returns the user source and the simulated lookup delay, which
// only applies to the in-process directory.
func (a *App) openSource() (services.UserSource, time.Duration, error) {
	switch a.config.Source {
	case config.SourceHTTP:
		return remote.NewHTTPSource(a.config.ServerHTTPURL, a.config.RequestTimeout), 0, nil
	case config.SourceGRPC:
		src, err := remote.NewGRPCSource(a.config.ServerEndpointAddr)
		if err != nil {
			return nil, 0, err
		}
		a.closers = append(a.closers, src.Close)
		return src, 0, nil
	default:
		return directory.NewSource(directory.NewSeeded()), a.config.LookupDelay, nil
	}
}

// Run restores the previous session and starts the REPL. It returns when
// the user exits, stdin is closed or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to ProfileKeeper (type 'help' for commands)")
	a.splash(ctx)
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

// requestContext bounds a single command by the configured request timeout.
func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) getStatus(ctx context.Context) string {
	if user, ok := a.facade.CurrentUser(ctx); ok {
		return fmt.Sprintf("(%s)", user.Username)
	}
	return ""
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.facade.IsLoggedIn(ctx)
}
