package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/yourorg/yulelog/internal/filter"
	"github.com/yourorg/yulelog/pkg/types"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			event_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			import_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			session_key TEXT NOT NULL,
			action TEXT NOT NULL,
			method TEXT NOT NULL,
			resource TEXT NOT NULL,
			client TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			unix_ts INTEGER NOT NULL,
			date TEXT NOT NULL DEFAULT '',
			pid TEXT NOT NULL,
			level TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_key);`,
		`CREATE INDEX IF NOT EXISTS idx_events_import ON events(import_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) CreateImport(source string) (*types.Import, error) {
	imp := &types.Import{ID: uuid.NewString(), Source: source, CreatedAt: time.Now().UTC()}
	_, err := s.db.Exec(`INSERT INTO imports(id,source,event_count,created_at) VALUES(?,?,?,?)`,
		imp.ID, imp.Source, imp.EventCount, imp.CreatedAt)
	if err != nil {
		return nil, err
	}
	return imp, nil
}

func (s *SQLiteStore) GetImport(id string) (*types.Import, error) {
	row := s.db.QueryRow(`SELECT id,source,event_count,created_at FROM imports WHERE id=?`, id)
	var out types.Import
	if err := row.Scan(&out.ID, &out.Source, &out.EventCount, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SQLiteStore) ListImports() ([]types.Import, error) {
	rows, err := s.db.Query(`SELECT id,source,event_count,created_at FROM imports ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.Import
	for rows.Next() {
		var imp types.Import
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.EventCount, &imp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteImport(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM events WHERE import_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM imports WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveEvents stores the workflow events among events under importID and
// returns how many were kept. Events outside the workflow are skipped.
func (s *SQLiteStore) SaveEvents(importID string, events []types.Event) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(`INSERT INTO events(import_id,seq,session_key,action,method,resource,client,timestamp,unix_ts,date,pid,level) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	kept := 0
	for i, e := range events {
		key, action, ok := filter.Classify(e.Resource)
		if !ok {
			continue
		}
		if _, err := stmt.Exec(importID, i+1, key, action, e.Method, e.Resource, e.Client,
			e.Timestamp.Format(types.TimestampLayout), e.Timestamp.Unix(), e.Date, e.PID, e.Level); err != nil {
			return 0, err
		}
		kept++
	}
	res, err := tx.Exec(`UPDATE imports SET event_count=event_count+? WHERE id=?`, kept, importID)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, errors.New("import not found")
	}
	return kept, tx.Commit()
}

func (s *SQLiteStore) SessionKeys() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT session_key FROM events ORDER BY session_key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

// SessionEvents returns every archived event of one session, oldest first.
func (s *SQLiteStore) SessionEvents(key string) ([]types.Event, error) {
	rows, err := s.db.Query(`SELECT method,resource,client,timestamp,date,pid,level FROM events WHERE session_key=? ORDER BY unix_ts ASC, import_id ASC, seq ASC`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]types.Event, 0)
	for rows.Next() {
		var e types.Event
		var ts string
		if err := rows.Scan(&e.Method, &e.Resource, &e.Client, &ts, &e.Date, &e.PID, &e.Level); err != nil {
			return nil, err
		}
		if e.Timestamp, err = types.ParseTimestamp(ts); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("store is nil")
	}
	return s.db.Close()
}
