package repository

import (
	"context"

	"github.com/edulink/chatsync/models"
)

// ReactionRepository, emoji reaction veritabanı işlemleri için interface.
//
// Her metod bir scope alır: ReactionScopeMain ana mesaj reaction'larını
// (reactions tablosu), ReactionScopeThread thread yanıtı reaction'larını
// (thread_reactions tablosu) hedefler. İki tablo aynı şekle sahiptir,
// implementasyon sorguyu scope'a göre parametrize eder.
type ReactionRepository interface {
	Toggle(ctx context.Context, scope models.ReactionScope, messageID, userID int64, reaction string) (models.ToggleAction, error)
	Groups(ctx context.Context, scope models.ReactionScope, messageID int64) ([]models.ReactionGroup, error)
	GroupsByMessageIDs(ctx context.Context, scope models.ReactionScope, messageIDs []int64) (map[int64][]models.ReactionGroup, error)
}
