package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

type UserRepository struct {
	db
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db{pool: pool}}
}

const userColumns = `
SELECT u.id, u.username, u.email, u.password_hash, u.role_id, COALESCE(r.name, '')
FROM users u
LEFT JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName)
	return u, err
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.query(ctx, userColumns+` ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	u, err := scanUser(r.queryRow(ctx, userColumns+` WHERE u.id = $1`, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.queryRow(ctx, userColumns+` WHERE u.email = $1`, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	const stmt = `
INSERT INTO users (role_id, username, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id`

	var id int64
	err := r.queryRow(ctx, stmt, user.RoleID, user.Username, user.Email, user.PasswordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, userID int64, params domain.UserUpdate) error {
	setParts := make([]string, 0, 4)
	args := []any{userID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Username != nil {
		appendSet("username", *params.Username)
	}
	if params.Email != nil {
		appendSet("email", *params.Email)
	}
	if params.PasswordHash != nil {
		appendSet("password_hash", *params.PasswordHash)
	}
	if params.RoleID != nil {
		appendSet("role_id", *params.RoleID)
	}
	if len(setParts) == 0 {
		return domain.ErrNothingToUpdate
	}

	stmt := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1`, strings.Join(setParts, ", "))
	tag, err := r.exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, userID int64) error {
	const stmt = `DELETE FROM users WHERE id = $1`

	tag, err := r.exec(ctx, stmt, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	const query = `SELECT id, name FROM roles ORDER BY id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (r *UserRepository) FindRoleByName(ctx context.Context, name string) (domain.Role, error) {
	const query = `SELECT id, name FROM roles WHERE LOWER(TRIM(name)) = LOWER(TRIM($1))`

	var role domain.Role
	if err := r.queryRow(ctx, query, name).Scan(&role.ID, &role.Name); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Role{}, domain.ErrRoleNotFound
		}
		return domain.Role{}, fmt.Errorf("find role: %w", err)
	}
	return role, nil
}

func (r *UserRepository) GetRole(ctx context.Context, roleID int64) (domain.Role, error) {
	const query = `SELECT id, name FROM roles WHERE id = $1`

	var role domain.Role
	if err := r.queryRow(ctx, query, roleID).Scan(&role.ID, &role.Name); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Role{}, domain.ErrRoleNotFound
		}
		return domain.Role{}, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}
