package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
)

func TestLoadCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT username, password\s+FROM api_users`).
		WillReturnRows(sqlmock.NewRows([]string{"username", "password"}).
			AddRow("alice", "$2a$10$abcdefghijklmnopqrstuv").
			AddRow("  ", "skipped").
			AddRow("bob", "plain"))

	creds, err := NewUserRepository(db).LoadCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Credential{
		{Username: "alice", Password: "$2a$10$abcdefghijklmnopqrstuv"},
		{Username: "bob", Password: "plain"},
	}, creds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCredentialsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("table missing")
	mock.ExpectQuery(`FROM api_users`).WillReturnError(boom)

	_, err = NewUserRepository(db).LoadCredentials(context.Background())
	assert.ErrorIs(t, err, boom)
}
