package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

// User, bir chat kullanıcısını temsil eder.
// DB'deki "users" tablosunun Go karşılığı.
//
// PasswordHash JSON'a asla serialize edilmez (json:"-") —
// API response'larında şifre hash'i sızdırmak güvenlik açığıdır.
type User struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	DisplayName  *string `json:"display_name"`
	PasswordHash string  `json:"-"`
	CreatedAt    int64   `json:"created_at"`
}

// Name, kullanıcının gösterilecek adını döner.
// DisplayName boşsa "User{id}" sentezlenir — silinmiş veya eksik profilli
// kullanıcıların mesajları yine de anlamlı bir gönderen adıyla görünür.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("User%d", u.ID)
}

// TokenClaims, JWT access token'ın payload'ı.
// jwt.RegisteredClaims embed edilir — exp/iat gibi standart alanları ve
// jwt.Claims interface'ini otomatik sağlar.
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// CreateUserRequest, yeni kullanıcı kayıt isteği.
type CreateUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// Validate, CreateUserRequest'in geçerli olup olmadığını kontrol eder.
func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	nameLen := utf8.RuneCountInString(r.Username)
	if nameLen < 3 || nameLen > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}
	for _, ch := range r.Username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username may only contain letters, digits, '.', '-' and '_'")
		}
	}

	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if utf8.RuneCountInString(r.DisplayName) > 64 {
		return fmt.Errorf("display name must be at most 64 characters")
	}

	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	return nil
}

// LoginRequest, kullanıcı giriş isteği.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}

func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '.' || ch == '-' || ch == '_'
}
