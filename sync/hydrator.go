package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/pkg/cache"
	"github.com/edulink/chatsync/repository"
)

// Hydrator, queue'daki minimal entry'leri client'a giden tam payload'lara
// dönüştürür. Queue otorite olmadığı için içerik HER ZAMAN store'dan okunur —
// queue sadece "şu id'ye bak" der.
//
// Hata toleransı iki seviyelidir:
//   - Ana mesaj okunamazsa (silinmiş veya yok) payload üretilmez: (nil, nil).
//     Silme tombstone'u ayrı listeden zaten gelir, burada event düşürülür.
//   - Zenginleştirmeler (gönderen adı, attachment'lar, reaction özeti,
//     thread özeti) birbirinden bağımsız best-effort'tur: biri başarısız
//     olursa loglanır, alan boş/sıfır kalır, payload yine döner. Tek bir
//     bozuk lookup bütün poll'ü düşürmemelidir.
type Hydrator struct {
	users       repository.UserRepository
	messages    repository.MessageRepository
	threads     repository.ThreadRepository
	reactions   repository.ReactionRepository
	attachments repository.AttachmentRepository

	// names: userID → görünen ad. Kullanıcı adları nadiren değişir,
	// her event için ayrı SELECT atmaya değmez.
	names *cache.TTLCache[int64, string]

	// reactionSummaries: "main:{id}" / "thread:{id}" → gruplanmış reaction'lar.
	// Toggle service'i her değişiklikte InvalidateReactions çağırır; TTL
	// sadece invalidation kaçarsa üst sınır görevi görür.
	reactionSummaries *cache.TTLCache[string, []models.ReactionGroup]
}

// NewHydrator, constructor — cache'leri başlatır.
func NewHydrator(
	users repository.UserRepository,
	messages repository.MessageRepository,
	threads repository.ThreadRepository,
	reactions repository.ReactionRepository,
	attachments repository.AttachmentRepository,
) *Hydrator {
	return &Hydrator{
		users:             users,
		messages:          messages,
		threads:           threads,
		reactions:         reactions,
		attachments:       attachments,
		names:             cache.New[int64, string](60*time.Second, 5*time.Minute),
		reactionSummaries: cache.New[string, []models.ReactionGroup](30*time.Second, 5*time.Minute),
	}
}

// Close, cache goroutine'lerini durdurur.
func (h *Hydrator) Close() {
	h.names.Close()
	h.reactionSummaries.Close()
}

// Hydrate, scope'a göre bir ana mesajı veya thread yanıtını payload'a çevirir.
// Mesaj yoksa veya soft-delete edilmişse (nil, nil) döner — caller event'i atlar.
func (h *Hydrator) Hydrate(ctx context.Context, scope models.Scope, messageID, viewerID int64) (*models.EventPayload, error) {
	if scope.IsThread() {
		return h.hydrateThreadMessage(ctx, scope, messageID, viewerID)
	}
	return h.hydrateMessage(ctx, scope, messageID, viewerID)
}

func (h *Hydrator) hydrateMessage(ctx context.Context, scope models.Scope, messageID, viewerID int64) (*models.EventPayload, error) {
	msg, err := h.messages.GetByID(ctx, messageID)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hydrate message %d: %w", messageID, err)
	}

	p := h.basePayload(ctx, scope, msg.ID, msg.UserID, msg.Body, msg.CreatedAt, viewerID)
	p.UpdatedAt = msg.UpdatedAt
	p.ThreadCount = msg.ThreadCount
	p.ThreadLastReplyAt = msg.ThreadLastReplyAt

	// Zenginleştirmeler — her biri bağımsız best-effort.
	if atts, err := h.attachments.ListByMessage(ctx, msg.ID); err != nil {
		log.Printf("[sync] attachment lookup failed (msg=%d): %v", msg.ID, err)
	} else {
		p.Attachments = atts
	}
	p.Reactions = h.reactionGroups(ctx, models.ReactionScopeMain, msg.ID, viewerID)

	return p, nil
}

func (h *Hydrator) hydrateThreadMessage(ctx context.Context, scope models.Scope, messageID, viewerID int64) (*models.EventPayload, error) {
	reply, err := h.threads.GetByID(ctx, messageID)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hydrate thread message %d: %w", messageID, err)
	}

	p := h.basePayload(ctx, scope, reply.ID, reply.UserID, reply.Body, reply.CreatedAt, viewerID)
	p.Reactions = h.reactionGroups(ctx, models.ReactionScopeThread, reply.ID, viewerID)

	return p, nil
}

// HydrateBatch, DB fallback'inden gelen mesaj listesini payload'lara çevirir.
// Attachment ve reaction lookup'ları N+1 yerine batch sorgularla yapılır.
func (h *Hydrator) HydrateBatch(ctx context.Context, scope models.Scope, msgs []models.Message, viewerID int64) []models.EventPayload {
	if len(msgs) == 0 {
		return nil
	}

	ids := make([]int64, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}

	attsByID, err := h.attachments.ListByMessageIDs(ctx, ids)
	if err != nil {
		log.Printf("[sync] batch attachment lookup failed: %v", err)
		attsByID = nil
	}
	groupsByID, err := h.reactions.GroupsByMessageIDs(ctx, models.ReactionScopeMain, ids)
	if err != nil {
		log.Printf("[sync] batch reaction lookup failed: %v", err)
		groupsByID = nil
	}

	payloads := make([]models.EventPayload, 0, len(msgs))
	for _, m := range msgs {
		p := h.basePayload(ctx, scope, m.ID, m.UserID, m.Body, m.CreatedAt, viewerID)
		p.UpdatedAt = m.UpdatedAt
		p.ThreadCount = m.ThreadCount
		p.ThreadLastReplyAt = m.ThreadLastReplyAt
		if atts, ok := attsByID[m.ID]; ok {
			p.Attachments = atts
		}
		p.Reactions = markCaller(groupsByID[m.ID], viewerID)
		payloads = append(payloads, *p)
	}

	return payloads
}

// HydrateThreadBatch, thread fallback listesinin batch karşılığı.
func (h *Hydrator) HydrateThreadBatch(ctx context.Context, scope models.Scope, replies []models.ThreadMessage, viewerID int64) []models.EventPayload {
	if len(replies) == 0 {
		return nil
	}

	ids := make([]int64, len(replies))
	for i, r := range replies {
		ids[i] = r.ID
	}

	groupsByID, err := h.reactions.GroupsByMessageIDs(ctx, models.ReactionScopeThread, ids)
	if err != nil {
		log.Printf("[sync] batch thread reaction lookup failed: %v", err)
		groupsByID = nil
	}

	payloads := make([]models.EventPayload, 0, len(replies))
	for _, r := range replies {
		p := h.basePayload(ctx, scope, r.ID, r.UserID, r.Body, r.CreatedAt, viewerID)
		p.Reactions = markCaller(groupsByID[r.ID], viewerID)
		payloads = append(payloads, *p)
	}

	return payloads
}

// InvalidateReactions, toggle sonrası özet cache'ini düşürür.
// Bir sonraki hydrate taze GROUP BY sonucunu okur.
func (h *Hydrator) InvalidateReactions(scope models.ReactionScope, messageID int64) {
	h.reactionSummaries.Delete(reactionCacheKey(scope, messageID))
}

// basePayload, her iki mesaj türünün ortak alanlarını doldurur.
func (h *Hydrator) basePayload(ctx context.Context, scope models.Scope, id, userID int64, body string, createdAt, viewerID int64) *models.EventPayload {
	return &models.EventPayload{
		ID:            id,
		ChannelID:     scope.ChannelID,
		ThreadID:      scope.ThreadID,
		UserID:        userID,
		SenderName:    h.senderName(ctx, userID),
		Body:          body,
		CreatedAt:     createdAt,
		CreatedAtText: models.FormatTimestamp(createdAt),
		Attachments:   []models.Attachment{},
		Reactions:     []models.ReactionGroup{},
		IsOwn:         userID == viewerID,
	}
}

// senderName, gönderen adını cache üzerinden çözer.
// Kullanıcı bulunamazsa "User{id}" sentezlenir — event asla düşürülmez.
func (h *Hydrator) senderName(ctx context.Context, userID int64) string {
	if name, ok := h.names.Get(userID); ok {
		return name
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, pkg.ErrNotFound) {
			log.Printf("[sync] sender lookup failed (user=%d): %v", userID, err)
		}
		return fmt.Sprintf("User%d", userID)
	}

	name := user.Name()
	h.names.Set(userID, name)
	return name
}

// reactionGroups, tek mesajın reaction özetini cache'ten veya store'dan okur
// ve viewer'ın CallerReacted bayrağını işaretler. Bayrak cache'e YAZILMAZ —
// aynı özet farklı viewer'lara farklı bayrakla servis edilir.
func (h *Hydrator) reactionGroups(ctx context.Context, rscope models.ReactionScope, messageID, viewerID int64) []models.ReactionGroup {
	key := reactionCacheKey(rscope, messageID)

	groups, ok := h.reactionSummaries.Get(key)
	if !ok {
		var err error
		groups, err = h.reactions.Groups(ctx, rscope, messageID)
		if err != nil {
			log.Printf("[sync] reaction lookup failed (%s msg=%d): %v", rscope, messageID, err)
			return []models.ReactionGroup{}
		}
		h.reactionSummaries.Set(key, groups)
	}

	return markCaller(groups, viewerID)
}

// markCaller, grupların kopyası üzerinde CallerReacted bayrağını doldurur.
// Orijinal slice değişmez — cache'teki veri viewer'dan bağımsız kalır.
func markCaller(groups []models.ReactionGroup, viewerID int64) []models.ReactionGroup {
	if len(groups) == 0 {
		return []models.ReactionGroup{}
	}

	out := make([]models.ReactionGroup, len(groups))
	copy(out, groups)
	for i := range out {
		out[i].CallerReacted = false
		for _, id := range out[i].UserIDs {
			if id == viewerID {
				out[i].CallerReacted = true
				break
			}
		}
	}
	return out
}

func reactionCacheKey(scope models.ReactionScope, messageID int64) string {
	return fmt.Sprintf("%s:%d", scope, messageID)
}
