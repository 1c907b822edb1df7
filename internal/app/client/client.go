package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"fleetlog/internal/app/client/config"
	"fleetlog/internal/app/client/worksheet"
	"fleetlog/internal/domain/usage"
)

// App wires the client together: configuration, the HTTP backend client and
// the local SQLite cache. CLI commands run against one App instance built in
// the root command's PersistentPreRunE.
type App struct {
	cfg   *config.Config
	log   *slog.Logger
	http  *httpClient
	cache *SnapshotCache
}

func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	httpClient, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("creating http client: %w", err)
	}

	cache, err := NewSnapshotCache(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("opening local cache: %w", err)
	}

	app := &App{
		cfg:   cfg,
		log:   log,
		http:  httpClient,
		cache: cache,
	}

	if token, err := app.loadToken(); err == nil && token != "" {
		app.http.SetToken(token)
	}

	return app, nil
}

func (a *App) Close() error {
	return a.cache.Close()
}

func (a *App) Config() *config.Config {
	return a.cfg
}

// SaveToken persists the bearer token for subsequent invocations and arms the
// HTTP client with it immediately.
func (a *App) SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty token", usage.ErrValidation)
	}
	if err := os.WriteFile(a.cfg.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	a.http.SetToken(token)
	a.log.Debug("token saved", "path", a.cfg.TokenPath)
	return nil
}

func (a *App) loadToken() (string, error) {
	data, err := os.ReadFile(a.cfg.TokenPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearToken removes the stored token. Used when the server starts answering
// 401 and the user needs to re-authenticate.
func (a *App) ClearToken() error {
	if err := os.Remove(a.cfg.TokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token: %w", err)
	}
	a.http.SetToken("")
	return nil
}

func (a *App) HealthCheck(ctx context.Context) error {
	return a.http.HealthCheck(ctx)
}

// Worksheet is an open editing session plus the freshness facts the CLI
// surfaces to the user. Offline means the rows came from the local snapshot
// rather than the backend; committing requires connectivity.
type Worksheet struct {
	Session   *worksheet.Session
	Offline   bool
	FetchedAt time.Time
}

// OpenWorksheet loads the canonical rows for one aircraft serial and restores
// any pending edits persisted by earlier invocations. When the backend is
// unreachable it falls back to the cached snapshot so the worksheet stays
// readable and editable offline; a fresh fetch also refreshes the snapshot.
func (a *App) OpenWorksheet(ctx context.Context, serial string) (*Worksheet, error) {
	session := worksheet.NewSession(serial, a.http, a.log)
	sheet := &Worksheet{Session: session}

	err := session.Load(ctx)
	switch {
	case err == nil:
		sheet.FetchedAt = time.Now()
		if cacheErr := a.cache.SaveSnapshot(serial, session.Rows(), sheet.FetchedAt); cacheErr != nil {
			a.log.Warn("failed to cache snapshot", "serial", serial, "error", cacheErr)
		}
	case errors.Is(err, usage.ErrNetwork):
		rows, fetchedAt, cacheErr := a.cache.Snapshot(serial)
		if cacheErr != nil || rows == nil {
			return nil, err
		}
		a.log.Info("backend unreachable, using cached snapshot",
			"serial", serial, "fetched_at", fetchedAt)
		session.RestoreCanonical(rows)
		sheet.Offline = true
		sheet.FetchedAt = fetchedAt
	default:
		return nil, err
	}

	pending, err := a.cache.Pending(serial)
	if err != nil {
		a.log.Warn("failed to restore pending edits", "serial", serial, "error", err)
	} else if len(pending) > 0 {
		session.Overlay().Restore(pending)
		a.log.Debug("pending edits restored", "serial", serial, "count", len(pending))
	}

	return sheet, nil
}

// SaveWorksheet persists the session's pending edits so they survive process
// exit. Called after every mutating command.
func (a *App) SaveWorksheet(serial string, sheet *Worksheet) error {
	return a.cache.SavePending(serial, sheet.Session.Overlay().Entries())
}

// CommitWorksheet pushes every pending edit to the backend and reconciles the
// local cache with the refreshed canonical rows. Commit is refused offline:
// the overlay must only be cleared once the server has actually seen the rows.
func (a *App) CommitWorksheet(ctx context.Context, serial string, sheet *Worksheet) ([]worksheet.CommitLine, error) {
	if sheet.Offline {
		return nil, fmt.Errorf("%w: cannot commit from a cached snapshot", usage.ErrNetwork)
	}

	report, err := sheet.Session.Commit(ctx)
	if err != nil {
		return report, err
	}

	// Usually empty after a commit; anything left was edited mid-walk.
	if cacheErr := a.cache.SavePending(serial, sheet.Session.Overlay().Entries()); cacheErr != nil {
		a.log.Warn("failed to update persisted edits", "serial", serial, "error", cacheErr)
	}
	if cacheErr := a.cache.SaveSnapshot(serial, sheet.Session.Rows(), time.Now()); cacheErr != nil {
		a.log.Warn("failed to refresh cached snapshot", "serial", serial, "error", cacheErr)
	}
	return report, nil
}

// DiscardWorksheet drops the session's pending edits in memory and on disk.
func (a *App) DiscardWorksheet(serial string, sheet *Worksheet) error {
	sheet.Session.Discard()
	return a.cache.ClearPending(serial)
}
