// Package cli wires the canvasctl command tree: current, select, list, show,
// find, grade and download.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/canvasctl/internal/client/api"
	"github.com/dmitrijs2005/canvasctl/internal/client/config"
	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/client/paths"
	"github.com/dmitrijs2005/canvasctl/internal/client/store"
	"github.com/dmitrijs2005/canvasctl/internal/client/ui"
	"github.com/dmitrijs2005/canvasctl/internal/logging"
)

// App bundles the collaborators every command needs.
type App struct {
	cfg     *config.Config
	api     api.Client
	store   store.Store
	console *ui.Console
	log     logging.Logger
	reader  *bufio.Reader

	// Viewer overrides, set by command flags; env and built-in defaults
	// apply when empty.
	pager  string
	editor string
}

// NewApp opens the local store and builds the API client. When no API token
// is configured it is prompted for, without echo.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	token := cfg.APIToken
	if token == "" {
		token, err = GetToken(os.Stdout)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("read token: %w", err)
		}
	}

	apiClient := api.NewHTTPClient(cfg.BaseURL, token, cfg.AccountID, cfg.PageSize, nil, log)

	return &App{
		cfg:     cfg,
		api:     apiClient,
		store:   st,
		console: ui.New(os.Stdout),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// resolver derives the download path resolver for the current
// course/assignment selection.
func (a *App) resolver(ctx context.Context) (*paths.Resolver, *models.Course, *models.Assignment, error) {
	course, err := a.store.Course(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	assignment, err := a.store.Assignment(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return paths.NewResolver(a.cfg.ScratchDir, course.CourseCode, assignment.Name), course, assignment, nil
}
