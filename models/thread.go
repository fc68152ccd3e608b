package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ThreadMessage, bir ana mesajın altındaki thread yanıtını temsil eder.
// Thread ayrı bir entity değildir — aynı parent_message_id'yi paylaşan
// ThreadMessage kümesidir.
type ThreadMessage struct {
	ID              int64  `json:"id"`
	ParentMessageID int64  `json:"parent_message_id"`
	UserID          int64  `json:"user_id"`
	Body            string `json:"body"`
	CreatedAt       int64  `json:"created_at"`
	DeletedAt       *int64 `json:"-"`
}

// ThreadAggregate, bir parent mesajın canlı reply'larından hesaplanan özet.
// Count 0 ise LastReplyAt nil olmalıdır — "reply yok" durumunun tek temsili.
type ThreadAggregate struct {
	Count       int
	LastReplyAt *int64
}

// CreateThreadMessageRequest, thread'e yanıt gönderme isteği.
type CreateThreadMessageRequest struct {
	Body string `json:"body"`
}

// Validate, CreateThreadMessageRequest'in geçerli olup olmadığını kontrol eder.
func (r *CreateThreadMessageRequest) Validate() error {
	r.Body = strings.TrimSpace(r.Body)
	bodyLen := utf8.RuneCountInString(r.Body)
	if bodyLen < 1 {
		return fmt.Errorf("reply body is required")
	}
	if bodyLen > 4000 {
		return fmt.Errorf("reply body must be at most 4000 characters")
	}
	return nil
}
