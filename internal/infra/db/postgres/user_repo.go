package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
)

type UserRepository struct{ db *sql.DB }

func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{db: db} }

// LoadCredentials reads api_users once; blank usernames are skipped.
func (r *UserRepository) LoadCredentials(ctx context.Context) ([]domain.Credential, error) {
	const q = `
SELECT username, password
FROM api_users
WHERE username <> ''
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
		if strings.TrimSpace(c.Username) == "" {
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
