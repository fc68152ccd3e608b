// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm SQLite repository implementasyonlarını oluşturur.
// Hepsi aynı *sql.DB bağlantısını paylaşır; transaction gerektiren akışlar
// (channel create, message create + attachment claim) service katmanında
// database.WithTx ile tx-scoped repo oluşturarak çalışır.
package main

import (
	"database/sql"

	"github.com/edulink/chatsync/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User       repository.UserRepository
	Session    repository.SessionRepository
	Channel    repository.ChannelRepository
	Message    repository.MessageRepository
	Thread     repository.ThreadRepository
	Reaction   repository.ReactionRepository
	ReadCursor repository.ReadCursorRepository
	Attachment repository.AttachmentRepository
}

// initRepositories, tüm repository'leri DB bağlantısı ile oluşturur.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:       repository.NewSQLiteUserRepo(conn),
		Session:    repository.NewSQLiteSessionRepo(conn),
		Channel:    repository.NewSQLiteChannelRepo(conn),
		Message:    repository.NewSQLiteMessageRepo(conn),
		Thread:     repository.NewSQLiteThreadRepo(conn),
		Reaction:   repository.NewSQLiteReactionRepo(conn),
		ReadCursor: repository.NewSQLiteReadCursorRepo(conn),
		Attachment: repository.NewSQLiteAttachmentRepo(conn),
	}
}
