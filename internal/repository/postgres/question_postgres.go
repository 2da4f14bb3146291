package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"defiquiz/internal/model"
	"defiquiz/internal/repository"
)

// QuestionPostgres is a PostgreSQL implementation of repository.QuestionRepository.
type QuestionPostgres struct {
	db *sql.DB
}

// NewQuestionPostgres creates a new QuestionPostgres repository.
func NewQuestionPostgres(db *sql.DB) *QuestionPostgres {
	return &QuestionPostgres{db: db}
}

var _ repository.QuestionRepository = (*QuestionPostgres)(nil)

// ListByProtocol loads questions and answers in a single joined query and
// groups the rows in order.
func (r *QuestionPostgres) ListByProtocol(ctx context.Context, protocolID string) ([]model.Question, error) {
	const q = `
		SELECT q.id, q.protocol_id, q.text, q.category, q.difficulty, COALESCE(q.explanation, ''),
		       a.id, a.text, a.is_correct, COALESCE(a.explanation, '')
		FROM questions q
		JOIN answers a ON a.question_id = q.id
		WHERE q.protocol_id = $1
		ORDER BY q.order_index ASC, q.id ASC, a.order_index ASC, a.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, protocolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Question, 0)
	for rows.Next() {
		var qu model.Question
		var a model.Answer
		if err := rows.Scan(
			&qu.ID, &qu.ProtocolID, &qu.Text, &qu.Category, &qu.Difficulty, &qu.Explanation,
			&a.ID, &a.Text, &a.IsCorrect, &a.Explanation,
		); err != nil {
			return nil, err
		}

		if n := len(items); n > 0 && items[n-1].ID == qu.ID {
			items[n-1].Answers = append(items[n-1].Answers, a)
			continue
		}
		qu.Answers = []model.Answer{a}
		items = append(items, qu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts the question after the protocol's current last question.
func (r *QuestionPostgres) Create(ctx context.Context, qu *model.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qQuestion = `
		INSERT INTO questions (id, protocol_id, text, category, difficulty, explanation, order_index)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''),
		        (SELECT COALESCE(MAX(order_index) + 1, 0) FROM questions WHERE protocol_id = $2))
	`
	if _, err := tx.ExecContext(ctx, qQuestion,
		qu.ID, qu.ProtocolID, qu.Text, qu.Category, qu.Difficulty, qu.Explanation,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("question %q: %w", qu.ID, repository.ErrConflict)
		}
		return err
	}

	const qAnswer = `
		INSERT INTO answers (id, question_id, text, is_correct, explanation, order_index)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	`
	for i, a := range qu.Answers {
		if _, err := tx.ExecContext(ctx, qAnswer, a.ID, qu.ID, a.Text, a.IsCorrect, a.Explanation, i); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("answer %q: %w", a.ID, repository.ErrConflict)
			}
			return err
		}
	}

	return tx.Commit()
}
