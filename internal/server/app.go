// Package server wires the backend together: it loads the user directory
// from the configured snapshot store, serves it over gRPC and HTTP, and
// writes the snapshot back on shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/directory"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
	"github.com/dmitrijs2005/profilekeeper/internal/server/httpserver"
	"github.com/dmitrijs2005/profilekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/profilekeeper/internal/server/grpc"
)

const exportTimeout = 10 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	directory   *directory.Directory
	snapshots   directory.SnapshotStore
	db          *sql.DB
	userService *services.UserService
}

// NewApp loads the directory and builds the services. Logs go to out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(out, level)

	app := &App{config: c, logger: logger, directory: directory.New()}

	if err := app.openSnapshotStore(ctx); err != nil {
		return nil, fmt.Errorf("snapshot store init error: %w", err)
	}
	if err := app.loadDirectory(ctx); err != nil {
		app.close()
		return nil, err
	}

	app.userService = services.NewUserService(app.directory, c, logger)
	return app, nil
}

func (app *App) openSnapshotStore(ctx context.Context) error {
	switch app.config.SnapshotBackend {
	case config.SnapshotFile:
		app.snapshots = directory.NewFileStore(app.config.SnapshotFile).WithPassphrase(app.config.SnapshotPassphrase)
	case config.SnapshotS3:
		client, err := directory.NewS3Client(ctx, directory.S3Options{
			User:     app.config.S3RootUser,
			Password: app.config.S3RootPassword,
			Bucket:   app.config.S3Bucket,
			Region:   app.config.S3Region,
			Endpoint: app.config.S3BaseEndpoint,
			Key:      app.config.S3Key,
		})
		if err != nil {
			return err
		}
		app.snapshots = directory.NewS3Store(client, app.config.S3Bucket, app.config.S3Key).WithPassphrase(app.config.SnapshotPassphrase)
	case config.SnapshotPostgres:
		db, err := directory.OpenPostgres(ctx, app.config.DatabaseDSN, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		app.snapshots = directory.NewPostgresStore(db)
	}
	return nil
}

// loadDirectory imports the snapshot, seeding the demo users when there is
// none and seeding is enabled.
func (app *App) loadDirectory(ctx context.Context) error {
	if app.snapshots != nil {
		err := app.directory.Import(ctx, app.snapshots)
		switch {
		case err == nil:
			app.logger.Info(ctx, "directory imported", "backend", app.config.SnapshotBackend, "users", app.directory.Len())
			return nil
		case !errors.Is(err, directory.ErrNoSnapshot):
			return err
		}
		app.logger.Info(ctx, "no snapshot found", "backend", app.config.SnapshotBackend)
	}

	if app.config.Seed {
		if err := app.directory.Seed(); err != nil {
			return fmt.Errorf("seed directory: %w", err)
		}
		app.logger.Info(ctx, "directory seeded", "users", app.directory.Len())
	}
	return nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is done, a signal arrives or a server fails, then
// exports the directory.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	return app.exportDirectory()
}

func (app *App) exportDirectory() error {
	if app.snapshots == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	if err := app.directory.Export(ctx, app.snapshots); err != nil {
		app.logger.Error(ctx, "export failed", "error", err)
		return err
	}
	app.logger.Info(ctx, "directory exported", "backend", app.config.SnapshotBackend, "users", app.directory.Len())
	return nil
}

func (app *App) close() {
	if app.db != nil {
		_ = app.db.Close()
	}
}
