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

var userRowColumns = []string{"id", "email", "password_hash", "role", "created_at", "updated_at"}

func TestUserRepository_GetByEmail(t *testing.T) {
	now := time.Now().UTC()
	id := uuid.New()

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    model.User
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`(?s)SELECT .* FROM users WHERE email = \$1`).
					WithArgs("a@b.co").
					WillReturnRows(sqlmock.NewRows(userRowColumns).
						AddRow(id.String(), "a@b.co", []byte("hash"), "admin", now, now))
			},
			want: model.User{ID: id, Email: "a@b.co", PasswordHash: []byte("hash"), Role: model.RoleAdmin, CreatedAt: now, UpdatedAt: now},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`(?s)SELECT .* FROM users WHERE email = \$1`).
					WithArgs("a@b.co").
					WillReturnRows(sqlmock.NewRows(userRowColumns))
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			got, err := NewUserRepository(db).GetByEmail(context.Background(), "a@b.co")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserRepository_GetByID_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(`(?s)SELECT .* FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(errors.New("connection reset"))

	_, err := NewUserRepository(db).GetByID(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get user by id")
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Email:        "new@b.co",
		PasswordHash: []byte("hash"),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`(?s)INSERT INTO users .* RETURNING`).
			WithArgs(user.ID, user.Email, user.PasswordHash, user.Role, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(user.ID.String(), user.Email, user.PasswordHash, "user", now, now))

		saved, err := NewUserRepository(db).Create(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, user, saved)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`(?s)INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := NewUserRepository(db).Create(context.Background(), user)
		assert.ErrorIs(t, err, model.ErrAlreadyExists)
	})
}
