package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/quote-api/internal/models"
	"github.com/google/uuid"
)

// ========================
// REPOSITORY STRUCT
// ========================

type QuoteRepo struct {
	DB *sql.DB
}

func NewQuoteRepo(db *sql.DB) *QuoteRepo {
	return &QuoteRepo{DB: db}
}

const quoteColumns = `id, title, description, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*models.Quote, error) {
	q := &models.Quote{}
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return q, nil
}

// validID reports whether id can name a stored quote. Malformed ids are
// treated as unknown rather than sent to the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ========================
// LIST ALL QUOTES
// ========================

func (r *QuoteRepo) List(ctx context.Context) ([]models.Quote, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes ORDER BY created_at, id`)
	if err != nil {
		return nil, &StoreError{Op: "list quotes", Err: err}
	}
	defer rows.Close()

	quotes := make([]models.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, &StoreError{Op: "scan quote", Err: err}
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list quotes", Err: err}
	}
	return quotes, nil
}

// ========================
// GET QUOTE BY ID
// ========================

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	q, err := scanQuote(r.DB.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get quote", Err: err}
	}
	return q, nil
}

// ========================
// CREATE QUOTE
// ========================

// Create inserts a quote. Missing title or description fails with ErrValidation
// before any query is issued.
func (r *QuoteRepo) Create(ctx context.Context, title, description string) (*models.Quote, error) {
	in := models.Quote{Title: title, Description: description}
	if err := checkRequired(in); err != nil {
		return nil, err
	}

	q, err := scanQuote(r.DB.QueryRowContext(ctx,
		`INSERT INTO quotes (id, title, description)
		 VALUES ($1, $2, $3)
		 RETURNING `+quoteColumns,
		uuid.NewString(), title, description,
	))
	if err != nil {
		return nil, classify("create quote", err)
	}
	return q, nil
}

// ========================
// UPDATE QUOTE BY ID
// ========================

// Update applies a partial patch and returns the updated quote.
func (r *QuoteRepo) Update(ctx context.Context, id string, patch models.QuotePatch) (*models.Quote, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	if err := checkRequiredValue("title", patch.Title); err != nil {
		return nil, err
	}
	if err := checkRequiredValue("description", patch.Description); err != nil {
		return nil, err
	}

	q, err := scanQuote(r.DB.QueryRowContext(ctx,
		`UPDATE quotes
		 SET title = COALESCE($1, title),
		     description = COALESCE($2, description),
		     updated_at = now()
		 WHERE id = $3
		 RETURNING `+quoteColumns,
		nullString(patch.Title), nullString(patch.Description), id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify("update quote", err)
	}
	return q, nil
}

// ========================
// DELETE QUOTE BY ID
// ========================

// Delete removes a quote and returns it as it was before deletion.
func (r *QuoteRepo) Delete(ctx context.Context, id string) (*models.Quote, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	q, err := scanQuote(r.DB.QueryRowContext(ctx,
		`DELETE FROM quotes WHERE id = $1 RETURNING `+quoteColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "delete quote", Err: err}
	}
	return q, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
