package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"defiquiz/internal/model"
	"defiquiz/internal/repository"
)

// ProtocolPostgres is a PostgreSQL implementation of repository.ProtocolRepository.
type ProtocolPostgres struct {
	db *sql.DB
}

// NewProtocolPostgres creates a new ProtocolPostgres repository.
func NewProtocolPostgres(db *sql.DB) *ProtocolPostgres {
	return &ProtocolPostgres{db: db}
}

var _ repository.ProtocolRepository = (*ProtocolPostgres)(nil)

const protocolColumns = `p.id, p.name, COALESCE(p.title, ''), COALESCE(p.description, ''), COALESCE(p.docs, ''),
		COALESCE(p.logo_url, ''), COALESCE(p.category, ''), COALESCE(p.difficulty, ''), COALESCE(p.secret_word, ''),
		p.status, p.active, p.order_index, p.created_at, p.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProtocol(row scanner, p *model.Protocol, extra ...any) error {
	dest := []any{
		&p.ID, &p.Name, &p.Title, &p.Description, &p.Docs,
		&p.LogoURL, &p.Category, &p.Difficulty, &p.SecretWord,
		&p.Status, &p.Active, &p.OrderIndex, &p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// List returns protocols with question counts ordered by order_index, then name.
func (r *ProtocolPostgres) List(ctx context.Context, includeHidden bool) ([]model.ProtocolWithCount, error) {
	q := `
		SELECT ` + protocolColumns + `, COUNT(q.id)
		FROM protocols p
		LEFT JOIN questions q ON q.protocol_id = p.id
		WHERE $1 OR (p.status = 'public' AND p.active)
		GROUP BY p.id
		ORDER BY p.order_index ASC, p.name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, includeHidden)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProtocolWithCount, 0)
	for rows.Next() {
		var p model.ProtocolWithCount
		if err := scanProtocol(rows, &p.Protocol, &p.QuestionCount); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single protocol by its ID.
func (r *ProtocolPostgres) FindByID(ctx context.Context, id string) (*model.Protocol, error) {
	q := `SELECT ` + protocolColumns + ` FROM protocols p WHERE p.id = $1`

	var p model.Protocol
	if err := scanProtocol(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("protocol %q: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a new protocol row and returns the stored record.
func (r *ProtocolPostgres) Create(ctx context.Context, p *model.Protocol) (*model.Protocol, error) {
	q := `
		INSERT INTO protocols AS p (id, name, title, description, docs, logo_url, category, difficulty, secret_word, status, active, order_index)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)
		RETURNING ` + protocolColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.Title, p.Description, p.Docs, p.LogoURL,
		p.Category, p.Difficulty, p.SecretWord, p.Status, p.Active, p.OrderIndex,
	)

	var out model.Protocol
	if err := scanProtocol(row, &out); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("protocol %q: %w", p.ID, repository.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}
