package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Message, bir ana kanal mesajını temsil eder.
// DB'deki "messages" tablosunun Go karşılığı.
//
// DeletedAt dolu ise mesaj soft-delete edilmiştir: satır DB'de kalır ama
// hiçbir poll/listeleme sonucunda görünmez. Satırı fiziksel silmek yerine
// soft delete kullanmak cursor aritmetiğini bozmaz (id'ler kaymaz) ve
// tombstone event'leri için kaynak sağlar.
//
// ThreadCount / ThreadLastReplyAt, parent üzerinde cache'lenen thread
// özetidir; canlı (silinmemiş) reply'lardan yeniden hesaplanır.
type Message struct {
	ID                int64  `json:"id"`
	ChannelID         int64  `json:"channel_id"`
	UserID            int64  `json:"user_id"`
	Body              string `json:"body"`
	CreatedAt         int64  `json:"created_at"`
	UpdatedAt         *int64 `json:"updated_at"`
	DeletedAt         *int64 `json:"-"`
	ThreadCount       int    `json:"thread_count"`
	ThreadLastReplyAt *int64 `json:"thread_last_reply_at"`
}

// Attachment, bir mesaja eklenmiş dosya metadata'sını temsil eder.
// Dosyanın kendisi dış upload servisinde yaşar — burada sadece referans tutulur.
type Attachment struct {
	ID        string `json:"id"`
	MessageID *int64 `json:"message_id"`
	Filename  string `json:"filename"`
	FileURL   string `json:"file_url"`
	FileSize  *int64 `json:"file_size"`
	MimeType  *string `json:"mime_type"`
	CreatedAt int64  `json:"created_at"`
}

// MessagePage, cursor-based pagination sonucu.
// Offset yerine "bu ID'den önceki N mesaj" kullanılır — yeni mesaj
// eklendiğinde sayfa kayması olmaz.
type MessagePage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}

// CreateMessageRequest, yeni mesaj gönderme isteği.
// AttachmentIDs: Önceden upload edilip kaydedilmiş attachment id'leri;
// mesaj oluşturulurken bu kayıtlar mesaja bağlanır.
type CreateMessageRequest struct {
	Body          string   `json:"body"`
	AttachmentIDs []string `json:"attachment_ids"`
}

// Validate, CreateMessageRequest'in geçerli olup olmadığını kontrol eder.
func (r *CreateMessageRequest) Validate() error {
	r.Body = strings.TrimSpace(r.Body)
	bodyLen := utf8.RuneCountInString(r.Body)
	if bodyLen < 1 && len(r.AttachmentIDs) == 0 {
		return fmt.Errorf("message body is required")
	}
	if bodyLen > 4000 {
		return fmt.Errorf("message body must be at most 4000 characters")
	}
	return nil
}

// UpdateMessageRequest, mesaj düzenleme isteği.
type UpdateMessageRequest struct {
	Body string `json:"body"`
}

// Validate, UpdateMessageRequest'in geçerli olup olmadığını kontrol eder.
func (r *UpdateMessageRequest) Validate() error {
	r.Body = strings.TrimSpace(r.Body)
	bodyLen := utf8.RuneCountInString(r.Body)
	if bodyLen < 1 {
		return fmt.Errorf("message body is required")
	}
	if bodyLen > 4000 {
		return fmt.Errorf("message body must be at most 4000 characters")
	}
	return nil
}

// RegisterAttachmentRequest, attachment metadata kayıt isteği.
// Dosyanın kendisi dış upload servisine gider; burada sadece referans alınır.
type RegisterAttachmentRequest struct {
	Filename string  `json:"filename"`
	FileURL  string  `json:"file_url"`
	FileSize *int64  `json:"file_size"`
	MimeType *string `json:"mime_type"`
}

// Validate, RegisterAttachmentRequest'in geçerli olup olmadığını kontrol eder.
func (r *RegisterAttachmentRequest) Validate() error {
	r.Filename = strings.TrimSpace(r.Filename)
	r.FileURL = strings.TrimSpace(r.FileURL)
	if r.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if r.FileURL == "" {
		return fmt.Errorf("file_url is required")
	}
	if r.FileSize != nil && *r.FileSize < 0 {
		return fmt.Errorf("file_size cannot be negative")
	}
	return nil
}
