// Package store keeps the library index: one row per audio file under the
// configured music roots, plus a few persisted settings.
package store

import (
	"database/sql"
	"errors"
	iofs "io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/fs"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Setting keys
const (
	SettingLastRoot = "last_root"
)

type EventType int

const (
	IndexRoot EventType = iota
	FetchStats
	FetchSettings
	SaveSetting
)

type Request struct {
	Op    EventType
	Root  string
	Path  string
	Key   string
	Value string
}

type Response struct {
	Op          EventType
	Root        string
	Count       int
	LastIndexed time.Time
	Settings    map[string]string
	Err         error
}

type DB struct {
	conn         *sql.DB
	exts         []string
	RequestChan  chan Request
	ResponseChan chan Response
}

// NewDB returns an unopened index that records files with the given extensions
func NewDB(audioExts []string) *DB {
	return &DB{
		exts:         audioExts,
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
	}
}

// Open initializes the database connection and schema
func (d *DB) Open(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// WAL lets the UI read while an index pass writes
	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;", "PRAGMA busy_timeout=5000;"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return err
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS tracks (
		path       TEXT PRIMARY KEY,
		root       TEXT NOT NULL,
		name       TEXT NOT NULL,
		ext        TEXT NOT NULL,
		size       INTEGER NOT NULL,
		mod_time   INTEGER NOT NULL,
		indexed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS tracks_root ON tracks(root);
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return err
	}

	d.conn = db
	return nil
}

// Start serves RequestChan until it is closed
func (d *DB) Start() {
	for req := range d.RequestChan {
		switch req.Op {
		case IndexRoot:
			path := req.Path
			if path == "" {
				path = req.Root
			}
			if _, err := d.IndexPath(req.Root, path); err != nil {
				log.Printf("Store Error indexing %s: %v", path, err)
			}
			d.handleStats(req.Root)
		case FetchStats:
			d.handleStats(req.Root)
		case FetchSettings:
			d.handleFetchSettings()
		case SaveSetting:
			if err := d.SetSetting(req.Key, req.Value); err != nil {
				log.Printf("Store Error saving setting: %v", err)
			}
			d.handleFetchSettings()
		}
	}
}

func (d *DB) handleStats(root string) {
	resp := Response{Op: FetchStats, Root: root}
	resp.Count, resp.Err = d.Count(root)
	if resp.Err == nil {
		resp.LastIndexed, resp.Err = d.LastIndexed(root)
	}
	d.ResponseChan <- resp
}

func (d *DB) handleFetchSettings() {
	settings, err := d.Settings()
	d.ResponseChan <- Response{Op: FetchSettings, Settings: settings, Err: err}
}

type track struct {
	path    string
	name    string
	ext     string
	size    int64
	modTime int64
}

// IndexPath brings the rows under path in line with the disk and returns
// the number of audio files found. A path that no longer exists drops its rows.
func (d *DB) IndexPath(root, path string) (int, error) {
	start := time.Now()
	tracks, err := d.collect(path)
	if err != nil {
		return 0, err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stamp := start.UnixNano()
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO tracks (path, root, name, ext, size, mod_time, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, t := range tracks {
		if _, err := stmt.Exec(t.path, root, t.name, t.ext, t.size, t.modTime, stamp); err != nil {
			return 0, err
		}
	}

	// Anything under path not seen in this pass is gone
	_, err = tx.Exec(`DELETE FROM tracks WHERE (path = ?1 OR substr(path, 1, length(?2)) = ?2) AND indexed_at < ?3`,
		path, dirPrefix(path), stamp)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	debug.Log(debug.STORE, "indexed %q: %d tracks in %v", path, len(tracks), time.Since(start))
	return len(tracks), nil
}

func (d *DB) collect(path string) ([]track, error) {
	info, err := os.Stat(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !fs.IsAudio(path, d.exts) {
			return nil, nil
		}
		return []track{newTrack(path, info)}, nil
	}

	var (
		mu     sync.Mutex
		tracks []track
	)
	conf := &fastwalk.Config{Follow: true}
	err = fastwalk.Walk(conf, path, func(p string, e iofs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p == path {
			return nil
		}
		if fs.IsHidden(e.Name()) {
			if e.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if e.IsDir() || !fs.IsAudio(e.Name(), d.exts) {
			return nil
		}
		info, err := fastwalk.StatDirEntry(p, e)
		if err != nil {
			return nil
		}
		mu.Lock()
		tracks = append(tracks, newTrack(p, info))
		mu.Unlock()
		return nil
	})
	return tracks, err
}

func newTrack(path string, info iofs.FileInfo) track {
	return track{
		path:    path,
		name:    filepath.Base(path),
		ext:     strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		size:    info.Size(),
		modTime: info.ModTime().Unix(),
	}
}

// dirPrefix is the string every path below dir starts with
func dirPrefix(dir string) string {
	return strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator)
}

// Count returns the number of indexed tracks under root
func (d *DB) Count(root string) (int, error) {
	var n int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM tracks WHERE root = ?", root).Scan(&n)
	return n, err
}

// LastIndexed returns when root was last indexed, or the zero time
func (d *DB) LastIndexed(root string) (time.Time, error) {
	var stamp sql.NullInt64
	if err := d.conn.QueryRow("SELECT MAX(indexed_at) FROM tracks WHERE root = ?", root).Scan(&stamp); err != nil {
		return time.Time{}, err
	}
	if !stamp.Valid {
		return time.Time{}, nil
	}
	return time.Unix(0, stamp.Int64), nil
}

// Tracks lists the indexed paths under root, ordered by path
func (d *DB) Tracks(root string) ([]string, error) {
	rows, err := d.conn.Query("SELECT path FROM tracks WHERE root = ? ORDER BY path", root)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths, rows.Err()
}

// Settings returns every stored setting
func (d *DB) Settings() (map[string]string, error) {
	rows, err := d.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err == nil {
			settings[key] = value
		}
	}
	return settings, rows.Err()
}

// Setting returns one stored value and whether it was set
func (d *DB) Setting(key string) (string, bool) {
	var value string
	if err := d.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value); err != nil {
		return "", false
	}
	return value, true
}

func (d *DB) SetSetting(key, value string) error {
	_, err := d.conn.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}

func (d *DB) Close() {
	if d.conn != nil {
		d.conn.Close()
	}
}
