package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/five82/shelf/internal/catalog"
)

// ProductsNamespace is the key the catalog overlay is stored under.
const ProductsNamespace = "persist:products"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	namespace  TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// DB is a small namespaced key/value store on top of SQLite.
type DB struct {
	db  *sql.DB
	lg  *zap.Logger
	now func() time.Time
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string, lg *zap.Logger) (*DB, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create data dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "init schema in %s", path)
	}
	return &DB{db: db, lg: lg, now: time.Now}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Get returns the raw value stored under namespace. A missing row returns
// (nil, false, nil).
func (d *DB) Get(ctx context.Context, namespace string) ([]byte, bool, error) {
	var value string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE namespace = ?`, namespace).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", namespace)
	}
	return []byte(value), true, nil
}

// Put stores value under namespace, replacing any previous value.
func (d *DB) Put(ctx context.Context, namespace string, value []byte) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO kv (namespace, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		namespace, string(value), d.now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrapf(err, "write %s", namespace)
	}
	return nil
}

// LoadOverlay returns the persisted catalog overlay. Missing or corrupt
// data yields an empty overlay; only read failures are errors.
func (d *DB) LoadOverlay(ctx context.Context) (catalog.Overlay, error) {
	raw, ok, err := d.Get(ctx, ProductsNamespace)
	if err != nil || !ok {
		return catalog.Overlay{}, err
	}
	var o catalog.Overlay
	if err := json.Unmarshal(raw, &o); err != nil {
		d.lg.Warn("Discarding corrupt persisted overlay", zap.String("namespace", ProductsNamespace), zap.Error(err))
		return catalog.Overlay{}, nil
	}
	return o, nil
}

// SaveOverlay persists the catalog overlay.
func (d *DB) SaveOverlay(ctx context.Context, o catalog.Overlay) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "encode overlay")
	}
	return d.Put(ctx, ProductsNamespace, raw)
}
