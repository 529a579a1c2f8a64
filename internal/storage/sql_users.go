package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/sqlscan"

	"aethermoor-server/internal/models"
)

const userColumns = `id, email, first_name, last_name, profile_image_url,
	password_hash, is_admin, created_at, updated_at`

func (s *SQLStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := sqlscan.Get(ctx, s.m.Read, &u,
		fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns), id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := sqlscan.Get(ctx, s.m.Read, &u,
		fmt.Sprintf("SELECT %s FROM users WHERE LOWER(email) = LOWER($1)", userColumns), email)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// adminAllowed: админ-флаг действителен только для email'ов из allow-list.
func (s *SQLStore) adminAllowed(email *string) bool {
	if email == nil {
		return false
	}
	_, ok := s.allowlist[strings.ToLower(strings.TrimSpace(*email))]
	return ok
}

// UpsertUser создает или обновляет пользователя по id. Попытка выставить
// is_admin для email'а вне allow-list молча сбрасывается: источником
// истины по админам служит окружение, а не клиентский payload.
func (s *SQLStore) UpsertUser(ctx context.Context, u models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.IsAdmin != 0 && !s.adminAllowed(u.Email) {
		s.logger.Warn("админ-флаг отклонен: email вне allow-list", zapEmail(u.Email))
		u.IsAdmin = 0
	}
	now := nowISO()
	if u.CreatedAt == nil {
		u.CreatedAt = &now
	}
	u.UpdatedAt = &now

	query := fmt.Sprintf(`INSERT INTO users
		(id, email, first_name, last_name, profile_image_url, password_hash, is_admin, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			email = $2,
			first_name = $3,
			last_name = $4,
			profile_image_url = $5,
			password_hash = COALESCE($6, users.password_hash),
			is_admin = $7,
			updated_at = $9
		RETURNING %s`, userColumns)

	var out models.User
	err := sqlscan.Get(ctx, s.m.Write, &out, query,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL,
		u.PasswordHash, u.IsAdmin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
