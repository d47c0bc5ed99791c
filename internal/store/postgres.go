package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wuwenbin0122/user-console/internal/models"
)

// Postgres stores users in the users table created by db.Postgres.EnsureSchema.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT id, username, email, password, role, image FROM users ORDER BY seq ASC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.Image); err != nil {
			return nil, fmt.Errorf("postgres scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list users: %w", err)
	}

	return users, nil
}

func (p *Postgres) Create(ctx context.Context, user models.User) error {
	const query = `INSERT INTO users (id, username, email, password, role, image) VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := p.pool.Exec(ctx, query, user.ID, user.Username, user.Email, user.Password, user.Role, user.Image); err != nil {
		return fmt.Errorf("postgres insert user: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateRole(ctx context.Context, id, role string) (models.User, error) {
	const query = `UPDATE users SET role = $2 WHERE id = $1 RETURNING id, username, email, password, role, image`

	var u models.User
	err := p.pool.QueryRow(ctx, query, id, role).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("postgres update role: %w", err)
	}
	return u, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
