package models

// User — учётная запись (админ или обычный посетитель с профилем).
// IsAdmin хранится как 0/1.
type User struct {
	ID              string  `db:"id" json:"id"`
	Email           *string `db:"email" json:"email,omitempty"`
	FirstName       *string `db:"first_name" json:"firstName,omitempty"`
	LastName        *string `db:"last_name" json:"lastName,omitempty"`
	ProfileImageURL *string `db:"profile_image_url" json:"profileImageUrl,omitempty"`
	// bcrypt-хэш; nil для пользователей без локального пароля
	PasswordHash *string `db:"password_hash" json:"-"`
	IsAdmin      int     `db:"is_admin" json:"isAdmin"`
	CreatedAt    *string `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt    *string `db:"updated_at" json:"updatedAt,omitempty"`
}
