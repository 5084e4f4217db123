package app

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/dummyjson"
	"github.com/five82/shelf/internal/loader"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/persist"
)

// Session holds the components one shelf process shares: the store, the
// loader feeding it and the database its overlay is persisted to.
type Session struct {
	Config config.Config
	Store  *catalog.Store
	Loader *loader.Loader
	Logger *zap.Logger

	db *persist.DB

	mu        sync.Mutex
	lastSaved uint64
}

// Open loads configuration, starts logging, hydrates a fresh store from
// the persisted overlay and wires the remote client. When the database
// cannot be opened the session runs in memory and nothing is saved.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	lg, err := logging.New(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "init logging")
	}

	store := catalog.NewStore()
	store.SetPerPage(cfg.PerPage)

	db, err := persist.Open(ctx, cfg.DBPath(), lg.Named("persist"))
	if err != nil {
		lg.Warn("Persistence unavailable, running in memory", zap.String("path", cfg.DBPath()), zap.Error(err))
		db = nil
	} else {
		overlay, err := db.LoadOverlay(ctx)
		if err != nil {
			lg.Warn("Load persisted overlay", zap.Error(err))
		} else {
			store.Hydrate(overlay)
		}
	}

	client, err := dummyjson.NewClient(cfg.APIURL,
		dummyjson.WithTimeout(cfg.RequestTimeout),
		dummyjson.WithUserAgent(userAgent(opts.Version)),
	)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, errors.Wrap(err, "init catalog client")
	}

	lg.Info("Session opened",
		zap.String("api", cfg.APIURL),
		zap.String("db", cfg.DBPath()),
		zap.Bool("persistent", db != nil),
	)

	return &Session{
		Config:    cfg,
		Store:     store,
		Loader:    loader.New(store, client, lg.Named("loader")),
		Logger:    lg,
		db:        db,
		lastSaved: store.Revisions().Overlay,
	}, nil
}

// Persistent reports whether overlay changes are written to disk.
func (s *Session) Persistent() bool {
	return s.db != nil
}

// Save writes the overlay if it changed since the last save.
func (s *Session) Save(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Read the revision first so a concurrent change is picked up by the
	// next save rather than lost.
	rev := s.Store.Revisions().Overlay
	if rev == s.lastSaved {
		return nil
	}
	if err := s.db.SaveOverlay(ctx, s.Store.Overlay()); err != nil {
		return errors.Wrap(err, "save overlay")
	}
	s.lastSaved = rev
	s.Logger.Debug("Overlay saved", zap.Uint64("rev", rev))
	return nil
}

// Close cancels in-flight requests and releases the database and logger.
func (s *Session) Close() error {
	s.Loader.Cancel()
	err := s.db.Close()
	_ = s.Logger.Sync()
	return err
}

func userAgent(version string) string {
	if version == "" {
		version = "dev"
	}
	return "shelf/" + version
}
