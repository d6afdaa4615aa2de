package postgresql

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const userColumns = `id, username, email, password_hash, full_name, role, is_verified,
	wallet_address, profile_image, created_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.IsVerified, &u.WalletAddress, &u.ProfileImage, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	const op = "storage.postgresql.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, full_name, role, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		in.Username, in.Email, in.PasswordHash, in.FullName, role, in.IsVerified)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(op, err, false)
	}
	return u, nil
}

func (s *Storage) GetUser(ctx context.Context, id int) (*models.User, error) {
	const op = "storage.postgresql.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err, "User not found")
	}
	return u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username))
	if err != nil {
		return nil, notFoundOr(op, err, "User not found")
	}
	return u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, notFoundOr(op, err, "User not found")
	}
	return u, nil
}

// UpdateUser обновляет только переданные поля, остальные сохраняются через COALESCE.
func (s *Storage) UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.User, error) {
	const op = "storage.postgresql.UpdateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var role *string
	if upd.Role != nil {
		r := string(*upd.Role)
		role = &r
	}
	row := s.DB.QueryRowContext(ctx, `
		UPDATE users SET
			email = COALESCE($2, email),
			full_name = COALESCE($3, full_name),
			password_hash = COALESCE($4, password_hash),
			role = COALESCE($5, role),
			is_verified = COALESCE($6, is_verified),
			wallet_address = COALESCE($7, wallet_address),
			profile_image = COALESCE($8, profile_image)
		WHERE id = $1
		RETURNING `+userColumns,
		id, upd.Email, upd.FullName, upd.PasswordHash, role, upd.IsVerified, upd.WalletAddress, upd.ProfileImage)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOr(op, err, "User not found")
	}
	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error) {
	const op = "storage.postgresql.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	page = page.Normalize()
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, total, nil
}
