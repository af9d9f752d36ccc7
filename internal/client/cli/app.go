package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/qrtag/internal/client/client"
	"github.com/dmitrijs2005/qrtag/internal/client/config"
	"github.com/dmitrijs2005/qrtag/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/qrtag/internal/client/services"
	"github.com/dmitrijs2005/qrtag/internal/client/session"
	"github.com/dmitrijs2005/qrtag/internal/filex"
	"github.com/dmitrijs2005/qrtag/internal/logging"
	"github.com/dmitrijs2005/qrtag/internal/phone"
)

// sessionInfo is the read side of the session the CLI displays.
type sessionInfo interface {
	Token(ctx context.Context) string
	SavedAt(ctx context.Context) (time.Time, bool)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	session     sessionInfo
	authService services.AuthService
	tagService  services.TagService
	reader      *bufio.Reader
	out         io.Writer

	mu        sync.Mutex
	lastState services.State
}

// NewApp opens the local session database and builds the API services.
// If the database cannot be opened the session is kept in memory for the
// lifetime of the process.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if _, ok := phone.Lookup(cfg.DefaultCountry); !ok {
		return nil, fmt.Errorf("%w: %q", phone.ErrUnknownCountry, cfg.DefaultCountry)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	var storage session.Storage
	db, err := openSessionDB(ctx, cfg.DataPath)
	if err != nil {
		logger.Warn(ctx, "session storage unavailable, session will not survive restart", "path", cfg.DataPath, "error", err)
		storage = metadata.NewMemoryRepository()
	} else {
		storage = metadata.NewSQLiteRepository(db)
	}

	store := session.NewStore(storage, logger)
	api := client.NewHTTPClient(cfg.APIBaseURL, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
		client.WithRetries(cfg.MaxRetries, cfg.RetryDelay),
	)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		session:     store,
		authService: services.NewAuthService(api, store, logger),
		tagService:  services.NewTagService(api, logger),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run restores the saved session and serves the REPL until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.close(ctx)

	unsubscribe := a.authService.Subscribe(a.onAuthChange)
	defer unsubscribe()

	if snap := a.authService.CheckAuth(ctx); snap.State == services.StateAuthenticated {
		printlnFn(fmt.Sprintf("Welcome back, %s!", snap.User.Name))
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func openSessionDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	return client.InitDatabase(ctx, path)
}

func (a *App) close(ctx context.Context) {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error(ctx, "failed to close session database", "error", err)
	}
}

// onAuthChange tells the user when a session ends, whether by logout or
// because the server rejected the token.
func (a *App) onAuthChange(s services.Snapshot) {
	a.mu.Lock()
	prev := a.lastState
	a.lastState = s.State
	a.mu.Unlock()

	if prev == services.StateAuthenticated && s.State == services.StateUnauthenticated {
		printlnFn("You are logged out.")
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.Current().State == services.StateAuthenticated
}

func (a *App) status() string {
	snap := a.authService.Current()
	if snap.State == services.StateAuthenticated && snap.User != nil {
		return snap.User.Email
	}
	return "guest"
}

// report prints the user-facing message of err. A rejected token has
// already been removed from the session; re-checking brings the auth state
// in line with it.
func (a *App) report(ctx context.Context, err error) error {
	printlnFn("Error:", client.FailureMessage(err))
	if client.IsUnauthorized(err) {
		a.authService.CheckAuth(ctx)
	}
	return err
}
