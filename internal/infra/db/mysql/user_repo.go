package mysql

import (
	"context"
	"database/sql"
	"fmt"

	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
)

// UserRepository reads API credentials from the api_users table.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{db: db} }

// LoadCredentials returns every user with a non-blank username. Rows are read
// once at startup into the in-memory store.
func (r *UserRepository) LoadCredentials(ctx context.Context) ([]domain.Credential, error) {
	const q = `
SELECT username, password
FROM api_users
ORDER BY username;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query api_users: %w", err)
	}
	defer rows.Close()

	var out []domain.Credential
	for rows.Next() {
		var c domain.Credential
		if err := rows.Scan(&c.Username, &c.Password); err != nil {
			return nil, err
		}
		if isBlank(c.Username) {
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
