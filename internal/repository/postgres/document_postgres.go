package postgres

import (
	"context"
	"database/sql"

	"expirytracker/internal/model"
	"expirytracker/internal/repository"
)

const documentColumns = `id, user_id, type, name, number, issue_date, expiry_date, notes, created_at, updated_at`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (model.Document, error) {
	var d model.Document
	err := s.Scan(
		&d.ID,
		&d.UserID,
		&d.Type,
		&d.Name,
		&d.Number,
		&d.IssueDate,
		&d.ExpiryDate,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, user_id, type, name, number, issue_date, expiry_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		doc.Type,
		doc.Name,
		doc.Number,
		doc.IssueDate,
		doc.ExpiryDate,
		doc.Notes,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document owned by userID.
func (r *DocumentPostgres) FindByID(ctx context.Context, userID, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND user_id = $2`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	items, err := r.query(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ListAllByUser returns every document of the user; reminder evaluation needs the full snapshot.
func (r *DocumentPostgres) ListAllByUser(ctx context.Context, userID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.query(ctx, q, userID)
}

// ListUserIDs returns every user that owns at least one document.
func (r *DocumentPostgres) ListUserIDs(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT user_id FROM documents ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update overwrites the editable fields. It returns sql.ErrNoRows when the document does not exist.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET type = $3, name = $4, number = $5, issue_date = $6, expiry_date = $7, notes = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		doc.Type,
		doc.Name,
		doc.Number,
		doc.IssueDate,
		doc.ExpiryDate,
		doc.Notes,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a document. It returns sql.ErrNoRows when nothing was deleted.
func (r *DocumentPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *DocumentPostgres) query(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
