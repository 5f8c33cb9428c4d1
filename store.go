package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ---------------------------------------------------------------------------
// Page store
// ---------------------------------------------------------------------------

const storeSchema = `
CREATE TABLE IF NOT EXISTS pages (
	name        TEXT PRIMARY KEY,
	updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS shapes (
	id    TEXT PRIMARY KEY,
	page  TEXT NOT NULL REFERENCES pages(name) ON DELETE CASCADE ON UPDATE CASCADE,
	type  TEXT NOT NULL,
	z     INTEGER NOT NULL,
	data  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shapes_page ON shapes(page, z);
`

// Store keeps every page of the library in one SQLite file. Shapes are
// stored as JSON rows; z is the slice position so load rebuilds the exact
// stacking order.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (st *Store) Close() error { return st.db.Close() }

// shapeRow is one shape encoded and ready for the shapes table. Encoding
// happens on the caller's goroutine so deferred writes never touch live
// shapes.
type shapeRow struct {
	id   string
	typ  string
	data string
}

func encodeShapes(shapes []*Shape) ([]shapeRow, error) {
	rows := make([]shapeRow, len(shapes))
	for i, s := range shapes {
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode shape %s: %w", s.ID, err)
		}
		rows[i] = shapeRow{id: s.ID, typ: string(s.Type), data: string(data)}
	}
	return rows, nil
}

// SavePage replaces the page's shapes with the given set.
func (st *Store) SavePage(name string, shapes []*Shape) error {
	rows, err := encodeShapes(shapes)
	if err != nil {
		return err
	}
	return st.saveRows(name, rows)
}

func (st *Store) saveRows(name string, rows []shapeRow) error {
	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO pages(name) VALUES(?)
		 ON CONFLICT(name) DO UPDATE SET updated_at = datetime('now')`, name); err != nil {
		return fmt.Errorf("upsert page: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM shapes WHERE page = ?`, name); err != nil {
		return fmt.Errorf("clear page: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO shapes(id, page, type, z, data) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for z, r := range rows {
		if _, err := stmt.Exec(r.id, name, r.typ, z, r.data); err != nil {
			return fmt.Errorf("insert shape %s: %w", r.id, err)
		}
	}
	return tx.Commit()
}

func (st *Store) LoadPage(name string) ([]*Shape, error) {
	rows, err := st.db.Query(`SELECT data FROM shapes WHERE page = ? ORDER BY z`, name)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	defer rows.Close()

	var shapes []*Shape
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan shape: %w", err)
		}
		var s Shape
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, fmt.Errorf("decode shape: %w", err)
		}
		shapes = append(shapes, &s)
	}
	return shapes, rows.Err()
}

func (st *Store) PageExists(name string) (bool, error) {
	var n int
	err := st.db.QueryRow(`SELECT COUNT(*) FROM pages WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check page: %w", err)
	}
	return n > 0, nil
}

// CreatePage registers an empty page if it does not exist yet.
func (st *Store) CreatePage(name string) error {
	if _, err := st.db.Exec(`INSERT OR IGNORE INTO pages(name) VALUES(?)`, name); err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	return nil
}

type PageInfo struct {
	Name      string
	UpdatedAt time.Time
	Shapes    int
}

// ListPages returns every page, most recently updated first.
func (st *Store) ListPages() ([]PageInfo, error) {
	rows, err := st.db.Query(`
		SELECT p.name, p.updated_at, COUNT(s.id)
		FROM pages p LEFT JOIN shapes s ON s.page = p.name
		GROUP BY p.name
		ORDER BY p.updated_at DESC, p.name`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var out []PageInfo
	for rows.Next() {
		var info PageInfo
		var updated string
		if err := rows.Scan(&info.Name, &updated, &info.Shapes); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		if t, err := time.Parse("2006-01-02 15:04:05", updated); err == nil {
			info.UpdatedAt = t
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (st *Store) DeletePage(name string) error {
	if _, err := st.db.Exec(`DELETE FROM pages WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

func (st *Store) RenamePage(oldName, newName string) error {
	if _, err := st.db.Exec(`UPDATE pages SET name = ? WHERE name = ?`, newName, oldName); err != nil {
		return fmt.Errorf("rename page: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Autosave
// ---------------------------------------------------------------------------

// autosaver funnels every persistence request from the editor. Direct saves
// write through immediately. Ephemeral saves (rapid widget cycling, shape
// dragging) are snapshotted and coalesced: each request replaces the pending
// snapshot, and only the latest one is written, once, when the debounce
// window goes quiet.
type autosaver struct {
	store *Store
	log   *zap.Logger
	deb   *Debouncer

	mu   sync.Mutex
	page string
	rows []shapeRow
}

func newAutosaver(store *Store, window time.Duration, log *zap.Logger) *autosaver {
	return &autosaver{
		store: store,
		log:   log,
		deb:   NewDebouncer(window),
	}
}

func (a *autosaver) Save(page string, shapes []*Shape, ephemeral bool) {
	rows, err := encodeShapes(shapes)
	if err != nil {
		a.log.Error("encode page", zap.String("page", page), zap.Error(err))
		return
	}

	if !ephemeral {
		// A pending snapshot may belong to another page; commit it before
		// the direct write.
		a.Flush()
		a.write(page, rows)
		return
	}

	a.mu.Lock()
	a.page, a.rows = page, rows
	a.mu.Unlock()
	a.deb.Debounce(a.commit)
}

// Flush writes any pending snapshot now. Called on quit and page switch.
func (a *autosaver) Flush() {
	a.deb.Cancel()
	a.commit()
}

func (a *autosaver) commit() {
	a.mu.Lock()
	page, rows := a.page, a.rows
	a.page, a.rows = "", nil
	a.mu.Unlock()

	if page == "" {
		return
	}
	a.write(page, rows)
}

func (a *autosaver) write(page string, rows []shapeRow) {
	if err := a.store.saveRows(page, rows); err != nil {
		a.log.Error("save page", zap.String("page", page), zap.Error(err))
		return
	}
	a.log.Debug("page saved", zap.String("page", page), zap.Int("shapes", len(rows)))
}
