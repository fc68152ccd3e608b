package repository

import (
	"context"

	"github.com/edulink/chatsync/models"
)

// SessionRepository, refresh token oturumları için interface.
//
// Access token stateless JWT olduğu için burada tutulmaz; sadece refresh
// token satırları yaşar. Delete ile logout gerçekten iptal eder.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
