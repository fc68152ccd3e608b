package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ChannelType, kanalın türünü temsil eder (direct veya group).
// Go'da enum yerine typed constant kullanılır.
type ChannelType string

const (
	ChannelTypeDirect ChannelType = "direct"
	ChannelTypeGroup  ChannelType = "group"
)

// Channel, bir chat kanalını temsil eder.
// DB'deki "channels" tablosunun Go karşılığı.
// Oluşturulduktan sonra üyelik dışında değiştirilemez (immutable).
type Channel struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Type      ChannelType `json:"type"`
	CreatedBy int64       `json:"created_by"`
	CreatedAt int64       `json:"created_at"`
}

// ChannelSummary, kanal listesi response'unda kanal + okunmamış sayısını taşır.
// Sidebar'daki unread badge'i için kullanılır.
type ChannelSummary struct {
	Channel     Channel `json:"channel"`
	UnreadCount int     `json:"unread_count"`
}

// ChannelDetail, tek kanal response'unda kanal + çağıranın okuma durumunu taşır.
// Client kanalı açtığında hem unread badge'ini hem de "nereden devam edeceğini"
// tek istekle öğrenir.
type ChannelDetail struct {
	Channel           Channel `json:"channel"`
	UnreadCount       int     `json:"unread_count"`
	LastReadMessageID int64   `json:"last_read_message_id"`
}

// Member, bir kanal üyesini temsil eder.
type Member struct {
	UserID      int64   `json:"user_id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	JoinedAt    int64   `json:"joined_at"`
}

// CreateChannelRequest, yeni kanal oluşturma isteği.
// MemberIDs: Kanala oluşturulurken eklenecek üyeler (oluşturan hariç).
type CreateChannelRequest struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	MemberIDs []int64 `json:"member_ids"`
}

// Validate, CreateChannelRequest'in geçerli olup olmadığını kontrol eder.
func (r *CreateChannelRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < 1 || nameLen > 100 {
		return fmt.Errorf("channel name must be between 1 and 100 characters")
	}

	for _, ch := range r.Name {
		if !isValidChannelNameChar(ch) {
			return fmt.Errorf("channel name contains invalid characters")
		}
	}

	if r.Type == "" {
		r.Type = string(ChannelTypeGroup)
	}
	if r.Type != string(ChannelTypeDirect) && r.Type != string(ChannelTypeGroup) {
		return fmt.Errorf("channel type must be 'direct' or 'group'")
	}

	// Direct kanal tam olarak iki kişiliktir: oluşturan + tek bir karşı taraf.
	if r.Type == string(ChannelTypeDirect) && len(r.MemberIDs) != 1 {
		return fmt.Errorf("direct channel requires exactly one other member")
	}

	return nil
}

// isValidChannelNameChar, kanal adında izin verilen karakterleri kontrol eder.
// Unicode harf/rakam, boşluk, tire, alt çizgi kabul edilir.
// unicode.IsLetter tüm dillerdeki harfleri kapsar (Türkçe ş/ç/ğ/ı/ö/ü dahil).
func isValidChannelNameChar(ch rune) bool {
	return unicode.IsLetter(ch) ||
		unicode.IsDigit(ch) ||
		ch == '-' || ch == '_' || ch == ' '
}
