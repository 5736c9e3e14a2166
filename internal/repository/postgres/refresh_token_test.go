package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

func TestRefreshTokenRepository_Create(t *testing.T) {
	token := model.RefreshToken{
		ID:        uuid.New(),
		TokenHash: []byte("hash"),
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "success"},
		{name: "duplicate", dbErr: &pgconn.PgError{Code: "23505"}, wantErr: model.ErrAlreadyExists},
		{name: "db error", dbErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			exp := mock.ExpectExec(`(?s)INSERT INTO refresh_tokens`).
				WithArgs(token.ID, token.TokenHash, token.UserID, token.ExpiresAt)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := NewRefreshTokenRepository(db).Create(context.Background(), token)
			switch {
			case tt.dbErr == nil:
				require.NoError(t, err)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to create refresh token")
			}
		})
	}
}

func TestRefreshTokenRepository_Find(t *testing.T) {
	id, userID := uuid.New(), uuid.New()
	expires := time.Now().Add(time.Hour).UTC()
	created := time.Now().UTC()
	cols := []string{"id", "token_hash", "user_id", "expires_at", "created_at"}

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`(?s)SELECT .* FROM refresh_tokens WHERE token_hash = \$1 AND user_id = \$2`).
			WithArgs([]byte("hash"), userID).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(id.String(), []byte("hash"), userID.String(), expires, created))

		got, err := NewRefreshTokenRepository(db).Find(context.Background(), []byte("hash"), userID)
		require.NoError(t, err)
		assert.Equal(t, model.RefreshToken{ID: id, TokenHash: []byte("hash"), UserID: userID, ExpiresAt: expires, CreatedAt: created}, got)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`(?s)SELECT .* FROM refresh_tokens`).
			WithArgs([]byte("hash"), userID).
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := NewRefreshTokenRepository(db).Find(context.Background(), []byte("hash"), userID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestRefreshTokenRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE token_hash = \$1`).
		WithArgs([]byte("hash")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteByToken(context.Background(), []byte("hash")))
	require.NoError(t, repo.DeleteByID(context.Background(), id))
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewRefreshTokenRepository(db).DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
