package user

import (
	"context"
	"database/sql"
	"fmt"
)

// Accessor runs queries against the users table.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}

// CreateUser registers a user. Registering an existing ID is a no-op.
func (a *Accessor) CreateUser(ctx context.Context, user User) (User, error) {
	if err := user.Validate(); err != nil {
		return User{}, err
	}

	query := `INSERT INTO users (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`
	if _, err := a.db.ExecContext(ctx, query, user.ID, user.DisplayName()); err != nil {
		return User{}, fmt.Errorf("exec context: %w", err)
	}

	return User{
		ID:   user.ID,
		Name: user.DisplayName(),
	}, nil
}

func (a *Accessor) GetUsers(ctx context.Context) ([]User, error) {
	var users []User

	query := `SELECT id, name FROM users ORDER BY id`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
