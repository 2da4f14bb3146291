package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"defiquiz/internal/model"
	"defiquiz/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var protocolRowColumns = []string{
	"id", "name", "title", "description", "docs", "logo_url", "category", "difficulty",
	"secret_word", "status", "active", "order_index", "created_at", "updated_at",
}

func TestProtocolPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProtocolPostgres(db)
	now := time.Now().UTC()

	t.Run("public only", func(t *testing.T) {
		rows := sqlmock.NewRows(append(protocolRowColumns, "count")).
			AddRow("aave", "Aave", "Aave V3", "", "", "", "lending", "medium", "GHOST", "public", true, 0, now, now, 5)

		mock.ExpectQuery("SELECT (.+) FROM protocols p LEFT JOIN questions q").
			WithArgs(false).
			WillReturnRows(rows)

		res, err := repo.List(context.Background(), false)

		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "aave", res[0].ID)
		assert.Equal(t, 5, res[0].QuestionCount)
		assert.Equal(t, "GHOST", res[0].SecretWord)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM protocols p").
			WithArgs(true).
			WillReturnError(errors.New("db down"))

		_, err := repo.List(context.Background(), true)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProtocolPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProtocolPostgres(db)
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(protocolRowColumns).
			AddRow("aave", "Aave", "", "desc", "docs", "", "", "", "GHOST", "public", true, 0, now, now)

		mock.ExpectQuery("SELECT (.+) FROM protocols p WHERE p.id = ?").
			WithArgs("aave").
			WillReturnRows(rows)

		p, err := repo.FindByID(context.Background(), "aave")

		require.NoError(t, err)
		assert.Equal(t, "Aave", p.Name)
		assert.Equal(t, "docs", p.Docs)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM protocols p WHERE p.id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(context.Background(), "missing")

		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.Nil(t, p)
	})
}

func TestProtocolPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProtocolPostgres(db)
	now := time.Now().UTC()
	in := &model.Protocol{ID: "uniswap", Name: "Uniswap", Status: "draft", Active: true}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(protocolRowColumns).
			AddRow("uniswap", "Uniswap", "", "", "", "", "", "", "", "draft", true, 0, now, now)

		mock.ExpectQuery("INSERT INTO protocols").
			WithArgs("uniswap", "Uniswap", "", "", "", "", "", "", "", "draft", true, 0).
			WillReturnRows(rows)

		out, err := repo.Create(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, "draft", out.Status)
		assert.Equal(t, now, out.CreatedAt)
	})

	t.Run("duplicate id", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO protocols").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(context.Background(), in)
		assert.True(t, errors.Is(err, repository.ErrConflict))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
