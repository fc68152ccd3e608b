package models

// Session, bir refresh token oturumunu temsil eder.
// Token uuid string'dir — DB'de primary key olarak tutulur.
// Access token stateless JWT'dir; sadece refresh token sunucuda yaşar,
// böylece logout gerçekten iptal edebilir.
type Session struct {
	Token     string `json:"token"`
	UserID    int64  `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"`
	CreatedAt int64  `json:"created_at"`
}
