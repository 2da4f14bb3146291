// Package seed holds the built-in protocol catalogue and question bank and
// loads them into a fresh database.
package seed

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"defiquiz/internal/model"
)

//go:embed data/protocols.yaml data/questions/*.yaml
var files embed.FS

// ErrInvalidBank is returned when the embedded content violates a bank invariant.
var ErrInvalidBank = errors.New("seed: invalid question bank")

type protocolEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Docs        string `yaml:"docs"`
	LogoURL     string `yaml:"logoUrl"`
	Category    string `yaml:"category"`
	Difficulty  string `yaml:"difficulty"`
	SecretWord  string `yaml:"secretWord"`
	Status      string `yaml:"status"`
	Active      bool   `yaml:"active"`
	OrderIndex  int    `yaml:"orderIndex"`
}

// Bank is the parsed seed content.
type Bank struct {
	Protocols []model.Protocol
	Questions []model.Question
}

// Load parses and validates the embedded seed files.
func Load() (*Bank, error) {
	return load(files)
}

func load(fsys fs.FS) (*Bank, error) {
	raw, err := fs.ReadFile(fsys, "data/protocols.yaml")
	if err != nil {
		return nil, fmt.Errorf("read protocols: %w", err)
	}

	var entries []protocolEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse protocols: %w", err)
	}

	bank := &Bank{}
	known := map[string]bool{}
	for _, e := range entries {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("%w: protocol without id or name", ErrInvalidBank)
		}
		status := e.Status
		if status == "" {
			status = model.ProtocolStatusPublic
		}
		known[e.ID] = true
		bank.Protocols = append(bank.Protocols, model.Protocol{
			ID:          e.ID,
			Name:        e.Name,
			Title:       e.Title,
			Description: e.Description,
			Docs:        strings.TrimSpace(e.Docs),
			LogoURL:     e.LogoURL,
			Category:    e.Category,
			Difficulty:  e.Difficulty,
			SecretWord:  e.SecretWord,
			Status:      status,
			Active:      e.Active,
			OrderIndex:  e.OrderIndex,
		})
	}

	names, err := fs.Glob(fsys, "data/questions/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var qs []model.Question
		if err := yaml.Unmarshal(raw, &qs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path.Base(name), err)
		}

		for _, q := range qs {
			if !known[q.ProtocolID] {
				return nil, fmt.Errorf("%w: question %s references unknown protocol %q", ErrInvalidBank, q.ID, q.ProtocolID)
			}
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidBank, err)
			}
		}
		bank.Questions = append(bank.Questions, qs...)
	}

	return bank, nil
}

// Apply inserts the bank into the database. Rows that already exist are left alone.
func Apply(ctx context.Context, db *sql.DB, bank *Bank) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	const qProtocol = `
		INSERT INTO protocols (id, name, title, description, docs, logo_url, category, difficulty, secret_word, status, active, order_index)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`
	for _, p := range bank.Protocols {
		if _, err := tx.ExecContext(ctx, qProtocol,
			p.ID, p.Name, p.Title, p.Description, p.Docs, p.LogoURL,
			p.Category, p.Difficulty, p.SecretWord, p.Status, p.Active, p.OrderIndex,
		); err != nil {
			return fmt.Errorf("seed protocol %s: %w", p.ID, err)
		}
	}

	const qQuestion = `
		INSERT INTO questions (id, protocol_id, text, category, difficulty, explanation, order_index)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		ON CONFLICT (id) DO NOTHING
	`
	const qAnswer = `
		INSERT INTO answers (id, question_id, text, is_correct, explanation, order_index)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		ON CONFLICT (id) DO NOTHING
	`
	for i, q := range bank.Questions {
		if _, err := tx.ExecContext(ctx, qQuestion,
			q.ID, q.ProtocolID, q.Text, q.Category, q.Difficulty, q.Explanation, i,
		); err != nil {
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
		for j, a := range q.Answers {
			if _, err := tx.ExecContext(ctx, qAnswer,
				a.ID, q.ID, a.Text, a.IsCorrect, a.Explanation, j,
			); err != nil {
				return fmt.Errorf("seed answer %s: %w", a.ID, err)
			}
		}
	}

	return tx.Commit()
}
