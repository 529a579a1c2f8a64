package storage

import (
	"context"
	"database/sql"
	"errors"
)

// GetMeta возвращает значение служебного ключа; nil — ключа нет.
func (s *SQLStore) GetMeta(ctx context.Context, key string) (*string, error) {
	var value sql.NullString
	err := s.m.Read.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !value.Valid {
		return nil, nil
	}
	return &value.String, nil
}

func (s *SQLStore) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.m.Write.ExecContext(ctx,
		`INSERT INTO meta (key, value, updated_at) VALUES ($1,$2,$3)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3`,
		key, value, nowISO())
	return err
}
