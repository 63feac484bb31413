package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoLogPrefix = "db:repository"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repository provides database access for authors and audit logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// =========================================================================
// AUTHOR OPERATIONS
// =========================================================================

// ListAuthorsParams holds parameters for ListAuthors.
type ListAuthorsParams struct {
	Page    int
	PerPage int
}

// ListAuthors returns a page of authors ordered by last name plus the total
// row count for pagination metadata.
func (r *Repository) ListAuthors(ctx context.Context, params ListAuthorsParams) ([]Author, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s - count authors: %w", repoLogPrefix, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, first_name, last_name, created, created_by, modified, modified_by
		 FROM authors
		 ORDER BY last_name, first_name, id
		 LIMIT $1 OFFSET $2`, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s - list authors: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Created, &a.CreatedBy, &a.Modified, &a.ModifiedBy); err != nil {
			return nil, 0, fmt.Errorf("%s - scan author: %w", repoLogPrefix, err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s - list authors rows: %w", repoLogPrefix, err)
	}

	return authors, total, nil
}

// GetAuthor finds an author by ID. Returns ErrNotFound when absent.
func (r *Repository) GetAuthor(ctx context.Context, id string) (*Author, error) {
	slog.Debug(fmt.Sprintf("%s - GetAuthor id=%s", repoLogPrefix, id))

	row := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, created, created_by, modified, modified_by
		 FROM authors
		 WHERE id = $1
		 LIMIT 1`, id)

	return scanAuthor(row)
}

// CreateAuthorParams holds parameters for CreateAuthor.
type CreateAuthorParams struct {
	FirstName string
	LastName  string
	UserID    string
}

// CreateAuthor inserts a new author and returns the stored row.
func (r *Repository) CreateAuthor(ctx context.Context, params CreateAuthorParams) (*Author, error) {
	slog.Info(fmt.Sprintf("%s - CreateAuthor %s %s", repoLogPrefix, params.FirstName, params.LastName))

	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO authors (first_name, last_name, created_by, modified_by, created, modified)
		 VALUES ($1, $2, $3, $3, $4, $4)
		 RETURNING id, first_name, last_name, created, created_by, modified, modified_by`,
		params.FirstName, params.LastName, params.UserID, now)

	return scanAuthor(row)
}

// UpdateAuthorParams holds parameters for UpdateAuthor. Nil fields keep the
// stored value.
type UpdateAuthorParams struct {
	ID        string
	FirstName *string
	LastName  *string
	UserID    string
}

// UpdateAuthor updates an author and returns the stored row. Returns
// ErrNotFound when the ID does not exist.
func (r *Repository) UpdateAuthor(ctx context.Context, params UpdateAuthorParams) (*Author, error) {
	slog.Info(fmt.Sprintf("%s - UpdateAuthor id=%s", repoLogPrefix, params.ID))

	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx,
		`UPDATE authors SET
		   first_name = COALESCE($2, first_name),
		   last_name = COALESCE($3, last_name),
		   modified = $4,
		   modified_by = $5
		 WHERE id = $1
		 RETURNING id, first_name, last_name, created, created_by, modified, modified_by`,
		params.ID, params.FirstName, params.LastName, now, params.UserID)

	return scanAuthor(row)
}

// DeleteAuthor removes an author by ID. Returns ErrNotFound when absent.
func (r *Repository) DeleteAuthor(ctx context.Context, id string) error {
	slog.Info(fmt.Sprintf("%s - DeleteAuthor id=%s", repoLogPrefix, id))

	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s - delete author: %w", repoLogPrefix, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========================================================================
// AUDIT LOG OPERATIONS
// =========================================================================

// InsertAuditLogParams holds parameters for InsertAuditLog.
type InsertAuditLogParams struct {
	Actor    string
	Action   string
	Resource string
	Detail   []byte
}

// InsertAuditLog records one audit entry.
func (r *Repository) InsertAuditLog(ctx context.Context, params InsertAuditLogParams) (*AuditLog, error) {
	detail := params.Detail
	if len(detail) == 0 {
		detail = []byte(`{}`)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO audit_logs (actor, action, resource, detail, created)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, actor, action, resource, detail, created`,
		params.Actor, params.Action, params.Resource, detail, time.Now().UTC())

	var l AuditLog
	if err := row.Scan(&l.ID, &l.Actor, &l.Action, &l.Resource, &l.Detail, &l.Created); err != nil {
		return nil, fmt.Errorf("%s - insert audit log: %w", repoLogPrefix, err)
	}
	return &l, nil
}

// ListAuditLogsParams holds parameters for ListAuditLogs.
type ListAuditLogsParams struct {
	Actor    string
	Resource string
	Page     int
	PerPage  int
}

// ListAuditLogs returns a page of audit entries, newest first, with the total
// count for pagination metadata. Actor and Resource filter when non-empty.
func (r *Repository) ListAuditLogs(ctx context.Context, params ListAuditLogsParams) ([]AuditLog, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	where := ` WHERE 1=1`
	args := []interface{}{}
	argn := 1
	if params.Actor != "" {
		where += fmt.Sprintf(` AND actor = $%d`, argn)
		args = append(args, params.Actor)
		argn++
	}
	if params.Resource != "" {
		where += fmt.Sprintf(` AND resource = $%d`, argn)
		args = append(args, params.Resource)
		argn++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s - count audit logs: %w", repoLogPrefix, err)
	}

	query := `SELECT id, actor, action, resource, detail, created FROM audit_logs` + where +
		fmt.Sprintf(` ORDER BY created DESC, id LIMIT $%d OFFSET $%d`, argn, argn+1)
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s - list audit logs: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var l AuditLog
		if err := rows.Scan(&l.ID, &l.Actor, &l.Action, &l.Resource, &l.Detail, &l.Created); err != nil {
			return nil, 0, fmt.Errorf("%s - scan audit log: %w", repoLogPrefix, err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s - list audit logs rows: %w", repoLogPrefix, err)
	}

	return logs, total, nil
}

// scanAuthor scans a single author row, mapping pgx.ErrNoRows to ErrNotFound.
func scanAuthor(row pgx.Row) (*Author, error) {
	var a Author
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Created, &a.CreatedBy, &a.Modified, &a.ModifiedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s - scan author: %w", repoLogPrefix, err)
	}
	return &a, nil
}
