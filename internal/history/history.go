// Package history records backend submissions in SQLite.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/docnif/internal/nif"
	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("submission not found")

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Submission is one call to the backend's process endpoint. The text itself
// is not stored, only its hash and length.
type Submission struct {
	ID             string       `json:"id"`
	DocumentName   string       `json:"documentName"`
	Language       nif.Language `json:"language"`
	TextHash       string       `json:"textHash"`
	TextLength     int          `json:"textLength"`
	Success        bool         `json:"success"`
	GraphID        string       `json:"graphId,omitempty"`
	GraphURI       string       `json:"graphUri,omitempty"`
	SparqlEndpoint string       `json:"sparqlEndpoint,omitempty"`
	LodviewURL     string       `json:"lodviewUrl,omitempty"`
	Error          string       `json:"error,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// NewSubmission builds a record from a request and its outcome. resp may be
// nil when the call failed before a response was decoded.
func NewSubmission(req nif.ProcessRequest, resp *nif.ProcessResponse, callErr error) *Submission {
	sum := sha256.Sum256([]byte(req.Text))
	s := &Submission{
		DocumentName: req.DocumentName,
		Language:     req.Language,
		TextHash:     hex.EncodeToString(sum[:]),
		TextLength:   utf8.RuneCountInString(req.Text),
	}
	if resp != nil {
		s.Success = resp.Success
		s.GraphID = resp.GraphID
		s.GraphURI = resp.GraphURI
		s.SparqlEndpoint = resp.SparqlEndpoint
		s.LodviewURL = resp.LodviewURL
		s.Error = resp.Error
	}
	if callErr != nil {
		s.Success = false
		s.Error = callErr.Error()
	}
	return s
}

// Store is a SQLite-backed submission log.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the database at path and creates the schema if needed.
// Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: conn, path: path}
	if err := s.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			document_name TEXT NOT NULL,
			language TEXT NOT NULL,
			text_hash TEXT NOT NULL,
			text_length INTEGER NOT NULL,
			success INTEGER NOT NULL,
			graph_id TEXT NOT NULL DEFAULT '',
			graph_uri TEXT NOT NULL DEFAULT '',
			sparql_endpoint TEXT NOT NULL DEFAULT '',
			lodview_url TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
		CREATE INDEX IF NOT EXISTS idx_submissions_text_hash ON submissions(text_hash);
	`)
	return err
}

// Create assigns an ID and timestamp and inserts the submission.
func (s *Store) Create(ctx context.Context, sub *Submission) error {
	sub.ID = uuid.New().String()
	sub.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, document_name, language, text_hash, text_length, success,
			graph_id, graph_uri, sparql_endpoint, lodview_url, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.DocumentName, string(sub.Language), sub.TextHash, sub.TextLength, sub.Success,
		sub.GraphID, sub.GraphURI, sub.SparqlEndpoint, sub.LodviewURL, sub.Error,
		sub.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, document_name, language, text_hash, text_length, success,
	graph_id, graph_uri, sparql_endpoint, lodview_url, error, created_at FROM submissions`

// Get returns one submission by ID.
func (s *Store) Get(ctx context.Context, id string) (*Submission, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	sub, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns submissions newest first. A limit <= 0 returns all rows.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*Submission, error) {
	query := selectColumns + ` ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
		if offset > 0 {
			query += ` OFFSET ?`
			args = append(args, offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := []*Submission{}
	for rows.Next() {
		sub, err := scan(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Count returns the number of stored submissions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*Submission, error) {
	var (
		sub       Submission
		language  string
		createdAt string
	)
	err := row.Scan(&sub.ID, &sub.DocumentName, &language, &sub.TextHash, &sub.TextLength, &sub.Success,
		&sub.GraphID, &sub.GraphURI, &sub.SparqlEndpoint, &sub.LodviewURL, &sub.Error, &createdAt)
	if err != nil {
		return nil, err
	}
	sub.Language = nif.Language(language)
	sub.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &sub, nil
}
