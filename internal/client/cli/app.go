package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/memberportal/internal/client/client"
	"github.com/dmitrijs2005/memberportal/internal/client/config"
	"github.com/dmitrijs2005/memberportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memberportal/internal/client/services"
	"github.com/dmitrijs2005/memberportal/internal/client/session"
	"github.com/dmitrijs2005/memberportal/internal/client/storage"
	"github.com/dmitrijs2005/memberportal/internal/filex"
	"github.com/dmitrijs2005/memberportal/internal/logging"

	_ "modernc.org/sqlite"
)

// App is the member portal shell. It owns the session store and the auth
// service, and acts as their Navigator and Notifier.
type App struct {
	config *config.Config
	logger logging.Logger
	store  *storage.Store
	auth   services.AuthService
	guard  *session.Guard

	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB

	route string
	// mobile is the number the pending OTP was sent to.
	mobile string
}

// NewApp builds the shell from c. With a StorePath the session lives in a
// SQLite file and survives restarts; without one it is kept in memory.
func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	var (
		repo metadata.Repository
		db   *sql.DB
	)
	if c.StorePath == "" {
		repo = metadata.NewMemoryRepository()
	} else {
		path, err := filex.EnsureParentDir(c.StorePath)
		if err != nil {
			return nil, err
		}
		db, err = client.InitDatabase(context.Background(), path)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		repo = metadata.NewSQLiteRepository(db)
	}

	a, err := newApp(c, repo, logger, nil, os.Stdin, os.Stdout)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(c *config.Config, repo metadata.Repository, logger logging.Logger,
	hc *http.Client, in io.Reader, out io.Writer) (*App, error) {
	endpoints, err := client.NewEndpoints(c.BaseURL, c.RoutePrefix)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		logger: logger,
		store:  storage.New(repo, logger),
		reader: bufio.NewReader(in),
		out:    out,
	}

	var auth services.AuthService
	gw := client.NewGateway(client.Options{
		HTTPClient: hc,
		Logger:     logger,
		OnUnauthorized: func(ctx context.Context) {
			auth.HandleTokenExpiry(ctx)
		},
	})
	auth = services.NewAuthService(gw, a.store, endpoints, a, a, logger,
		services.Options{LogoutTimeout: c.LogoutTimeout})

	a.auth = auth
	a.guard = session.NewGuard(a.store, a)
	return a, nil
}

// Navigate records route as the current screen.
func (a *App) Navigate(_ context.Context, route string) {
	if a.route == route {
		return
	}
	a.route = route
	fmt.Fprintf(a.out, "-> %s\n", route)
}

// Notify prints a notice.
func (a *App) Notify(_ context.Context, level services.Level, message string) {
	fmt.Fprintf(a.out, "[%s] %s\n", level, message)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.auth.IsAuthenticated(ctx)
}

func (a *App) getStatus() string {
	return a.route
}

// Run opens the screen matching the stored session and starts the REPL.
// It blocks until the user exits, then closes the session store.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				a.logger.Error(ctx, "close session store", "error", err)
			}
		}
	}()

	if a.isLoggedIn(ctx) {
		a.Navigate(ctx, session.RouteDashboard)
	} else {
		a.Navigate(ctx, session.RouteLogin)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
