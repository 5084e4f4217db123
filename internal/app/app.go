package app

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/ui"
)

const defaultAutosaveInterval = time.Second

// Options configure the shelf application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shelf/prefs.toml
	Version    string
}

// Run boots the shelf TUI until the user quits or ctx is cancelled. The
// overlay is saved whenever it changes and once more on the way out.
func Run(ctx context.Context, opts Options) (err error) {
	s, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close session")
		}
	}()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Quitting the UI ends the autosave loop too.
		defer cancel()
		return ui.Run(ui.Options{
			Context:   gctx,
			Store:     s.Store,
			Loader:    s.Loader,
			Logger:    s.Logger,
			LogPath:   s.Config.LogPath(),
			ThemeName: userPrefs.Theme,
			PrefsPath: prefsPath,
		})
	})
	g.Go(func() error {
		s.autosave(gctx, defaultAutosaveInterval)
		return nil
	})

	runErr := g.Wait()

	// Final save uses a fresh context; ctx is already cancelled here.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer saveCancel()
	if err := s.Save(saveCtx); err != nil {
		s.Logger.Error("Final save failed", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// autosave persists the overlay every interval while it keeps changing.
// Save failures are logged and retried on the next tick.
func (s *Session) autosave(ctx context.Context, interval time.Duration) {
	if !s.Persistent() {
		return
	}
	if interval <= 0 {
		interval = defaultAutosaveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Save(ctx); err != nil && ctx.Err() == nil {
				s.Logger.Warn("Autosave failed", zap.Error(err))
			}
		}
	}
}
