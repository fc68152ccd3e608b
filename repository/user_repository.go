// Package repository, veritabanı erişim katmanını barındırır.
//
// Her entity için iki dosya vardır: interface tanımı (bu dosya gibi) ve
// SQLite implementasyonu (sqlite_*.go). Service katmanı sadece interface'e
// bağımlıdır — testlerde veya başka bir store'a geçişte implementasyon
// değişir, service değişmez.
package repository

import (
	"context"

	"github.com/edulink/chatsync/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
