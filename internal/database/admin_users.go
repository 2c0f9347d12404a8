package database

import (
	"context"

	"github.com/google/uuid"
)

const getAdminUserByEmail = `
SELECT id, email, hashed_password, role, created_at
FROM admin_users
WHERE email = $1
`

func (q *Queries) GetAdminUserByEmail(ctx context.Context, email string) (AdminUser, error) {
	row := q.db.QueryRow(ctx, getAdminUserByEmail, email)
	var u AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Role, &u.CreatedAt)
	return u, err
}

const getAdminUserByID = `
SELECT id, email, hashed_password, role, created_at
FROM admin_users
WHERE id = $1
`

func (q *Queries) GetAdminUserByID(ctx context.Context, id uuid.UUID) (AdminUser, error) {
	row := q.db.QueryRow(ctx, getAdminUserByID, id)
	var u AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Role, &u.CreatedAt)
	return u, err
}

const createAdminUser = `
INSERT INTO admin_users (email, hashed_password, role)
VALUES ($1, $2, $3)
RETURNING id, email, hashed_password, role, created_at
`

type CreateAdminUserParams struct {
	Email          string
	HashedPassword string
	Role           string
}

func (q *Queries) CreateAdminUser(ctx context.Context, arg CreateAdminUserParams) (AdminUser, error) {
	row := q.db.QueryRow(ctx, createAdminUser, arg.Email, arg.HashedPassword, arg.Role)
	var u AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Role, &u.CreatedAt)
	return u, err
}

const countAdminUsers = `
SELECT COUNT(*) FROM admin_users
`

func (q *Queries) CountAdminUsers(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countAdminUsers)
	var count int64
	err := row.Scan(&count)
	return count, err
}
