package models

import (
	"fmt"
	"unicode/utf8"
)

// ReactionScope, toggle'ın ana mesaja mı thread yanıtına mı uygulanacağını belirtir.
type ReactionScope string

const (
	ReactionScopeMain   ReactionScope = "main"
	ReactionScopeThread ReactionScope = "thread"
)

// MaxReactionLength, bir reaction string'inin maksimum karakter uzunluğu.
// Çoğu emoji 1-2 codepoint'tir ama bileşik emojiler (aile, bayrak vb.)
// 10+ codepoint olabilir. 32 karakter geniş bir güvenlik marjı sağlar.
const MaxReactionLength = 32

// Reaction, bir kullanıcının bir mesaja verdiği tek bir emoji tepkisini temsil eder.
//
// UNIQUE(message_id, user_id, reaction) constraint'i sayesinde
// bir kullanıcı aynı mesaja aynı emojiyi sadece bir kez ekleyebilir.
// Varlık bir küme üyeliğidir: toggle yoksa ekler, varsa siler — asla çoğaltmaz.
type Reaction struct {
	ID        int64  `json:"id"`
	MessageID int64  `json:"message_id"`
	UserID    int64  `json:"user_id"`
	Reaction  string `json:"reaction"`
	CreatedAt int64  `json:"created_at"`
}

// ReactionGroup, bir mesajdaki aynı emojinin toplu görünümü.
// Frontend her emoji için count + kimlerin tepki verdiğini bilmek ister;
// CallerReacted, isteği yapan kullanıcının UserIDs içinde olup olmadığıdır.
type ReactionGroup struct {
	Reaction      string  `json:"type"`
	Count         int     `json:"count"`
	UserIDs       []int64 `json:"userIds"`
	CallerReacted bool    `json:"callerReacted"`
}

// ToggleAction, toggle sonucunun yönü.
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)

// ToggleReactionRequest, reaction toggle endpoint'inin body'si.
type ToggleReactionRequest struct {
	MessageID int64  `json:"messageId"`
	Reaction  string `json:"reactionType"`
	Scope     string `json:"scope"`
}

// Validate, ToggleReactionRequest'in geçerli olup olmadığını kontrol eder.
// Store'a dokunmadan önce reddedilir — boş reaction veya geçersiz scope 400 döner.
func (r *ToggleReactionRequest) Validate() error {
	if r.MessageID <= 0 {
		return fmt.Errorf("messageId is required")
	}
	if r.Reaction == "" {
		return fmt.Errorf("reactionType is required")
	}
	if utf8.RuneCountInString(r.Reaction) > MaxReactionLength {
		return fmt.Errorf("reactionType too long")
	}
	if r.Scope == "" {
		r.Scope = string(ReactionScopeMain)
	}
	if r.Scope != string(ReactionScopeMain) && r.Scope != string(ReactionScopeThread) {
		return fmt.Errorf("scope must be 'main' or 'thread'")
	}
	return nil
}

// ToggleReactionResult, toggle endpoint'inin response'u.
type ToggleReactionResult struct {
	Action    ToggleAction    `json:"action"`
	Reactions []ReactionGroup `json:"reactions"`
}
