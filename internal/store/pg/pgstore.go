// Package pg implements the credential, document and audit stores on
// PostgreSQL. Documents live in a single JSONB table keyed by collection
// name; filters use containment so the store stays schemaless.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"campushub.org/internal/audit"
	"campushub.org/internal/auth"
	"campushub.org/internal/ids"
	"campushub.org/internal/records"
)

const pgErrUniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

var (
	_ auth.CredentialStore = (*Store)(nil)
	_ records.Store        = (*Store)(nil)
	_ audit.Store          = (*Store)(nil)
)

// Open connects to PostgreSQL with tuned pool defaults.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection. Used by tests with sqlmock.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// --- auth.CredentialStore ---

func (s *Store) CreateCredential(ctx context.Context, cred *auth.Credential) error {
	if s.db == nil {
		return records.ErrUnavailable
	}
	_, err := s.db.ExecContext(ctx, `
		insert into credentials (id, email, password_hash, role, ref_id, created_at, updated_at)
		values ($1, $2, $3, $4, nullif($5,''), $6, $7)
	`, cred.ID, cred.Email, cred.PasswordHash, cred.Role, cred.RefID, cred.CreatedAt, cred.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Store) FindCredentialByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	if s.db == nil {
		return nil, records.ErrUnavailable
	}
	var (
		cred  auth.Credential
		refID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select id, email, password_hash, role, ref_id, created_at, updated_at
		from credentials where email = $1
	`, email).Scan(&cred.ID, &cred.Email, &cred.PasswordHash, &cred.Role, &refID, &cred.CreatedAt, &cred.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if refID.Valid {
		cred.RefID = refID.String
	}
	return &cred, nil
}

// --- records.Store ---

func (s *Store) Create(ctx context.Context, collection string, doc records.Document) (string, error) {
	if s.db == nil {
		return "", records.ErrUnavailable
	}
	id := ids.New()
	stored := make(records.Document, len(doc)+2)
	for k, v := range doc {
		stored[k] = v
	}
	stored["id"] = id
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		insert into documents (id, collection, doc) values ($1, $2, $3)
	`, id, collection, payload); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) List(ctx context.Context, collection string, filter records.Filter) ([]records.Document, error) {
	if s.db == nil {
		return nil, records.ErrUnavailable
	}

	query := `select doc from documents where collection = $1 order by id`
	args := []any{collection}
	if len(filter) > 0 {
		cond, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		query = `select doc from documents where collection = $1 and doc @> $2 order by id`
		args = append(args, cond)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc records.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *Store) UpdateOne(ctx context.Context, collection, id string, patch records.Document) (int64, error) {
	if s.db == nil {
		return 0, records.ErrUnavailable
	}
	delete(patch, "id")
	patch["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.Marshal(patch)
	if err != nil {
		return 0, fmt.Errorf("marshal patch: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		update documents set doc = doc || $3 where collection = $1 and id = $2
	`, collection, id, payload)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- audit.Store ---

func (s *Store) AppendAuditEntry(ctx context.Context, entry *audit.Entry) error {
	if s.db == nil {
		return records.ErrUnavailable
	}
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx, `
		insert into audit_log (id, actor_ref_id, actor_role, action, path, method, status, client_ip, occurred_at)
		values ($1, nullif($2,''), nullif($3,''), $4, $5, $6, $7, nullif($8,''), $9)
	`, entry.ID, entry.ActorRefID, entry.ActorRole, entry.Action, entry.Path, entry.Method, entry.Status, entry.ClientIP, entry.OccurredAt)
	return err
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
