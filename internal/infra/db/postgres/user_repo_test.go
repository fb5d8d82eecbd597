package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT username, password\s+FROM api_users\s+WHERE username <> ''`).
		WillReturnRows(sqlmock.NewRows([]string{"username", "password"}).
			AddRow("carol", "pw").
			AddRow("dave", "pw2"))

	creds, err := NewUserRepository(db).LoadCredentials(context.Background())
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, "carol", creds[0].Username)
	assert.Equal(t, "pw2", creds[1].Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCredentialsScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM api_users`).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("only-one-column"))

	_, err = NewUserRepository(db).LoadCredentials(context.Background())
	assert.Error(t, err)
}
