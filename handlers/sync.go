package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/pkg/ratelimit"
	"github.com/edulink/chatsync/services"
	"github.com/edulink/chatsync/sync"
)

// SyncHandler, poll endpoint'ini yöneten struct.
type SyncHandler struct {
	poller         *sync.Poller
	channelService services.ChannelService
	pollLimiter    *ratelimit.PollRateLimiter
}

// NewSyncHandler, constructor.
// pollLimiter: nil ise rate limiting devre dışı kalır.
func NewSyncHandler(poller *sync.Poller, channelService services.ChannelService, pollLimiter *ratelimit.PollRateLimiter) *SyncHandler {
	return &SyncHandler{
		poller:         poller,
		channelService: channelService,
		pollLimiter:    pollLimiter,
	}
}

// Poll godoc
// GET /api/channels/{id}/sync?thread_id=0&last_ts=1700000000&last_id=42&mode=blocking&timeout_seconds=25
//
// Query parametreleri:
//   - thread_id: 0 veya boş → ana kanal feed'i; >0 → o parent'ın thread'i
//   - last_ts / last_id: client cursor'u — son tüketilen event'in
//     (unix saniye, mesaj id) çifti. İkisi de boşsa (0,0) kabul edilir:
//     "baştan itibaren her şey yeni".
//   - mode: "blocking" → event yoksa pencere dolana kadar bekle;
//     diğer her değer non-blocking.
//   - timeout_seconds: blocking pencere isteği — sunucu üst sınırı clamp'ler.
//
// Başarılı response her zaman 200'dür; timeout dahi hata değildir
// (timedOut=true ile normal gövde döner). Üye olmayan kullanıcı poll
// motoru hiç çalışmadan 403 alır.
func (h *SyncHandler) Poll(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// Rate limit: kısa pencerede aşırı poll açan kullanıcıyı frenle.
	// Blocking poll'ler handler goroutine'i dakikalarca meşgul edebilir;
	// limitsiz bırakmak tek kullanıcıya tüm kapasiteyi verdirebilir.
	if h.pollLimiter != nil && !h.pollLimiter.Allow(user.ID) {
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests, "too many poll requests")
		return
	}

	// Authorization ön koşulu — collector'a inmeden reddet.
	if err := h.channelService.RequireMember(r.Context(), channelID, user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	req, err := h.parsePollRequest(r, channelID, user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	resp, err := h.poller.Poll(r.Context(), req)
	if err != nil {
		// Client bağlantıyı kopardıysa yazacak kimse kalmadı — sessiz çık.
		if errors.Is(err, context.Canceled) {
			return
		}
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}

// parsePollRequest, query parametrelerini çözümler.
// Sayısal alanlarda geçersiz değer 400'dür; eksik alan varsayılan alır.
func (h *SyncHandler) parsePollRequest(r *http.Request, channelID, userID int64) (sync.PollRequest, error) {
	q := r.URL.Query()

	threadID, err := parseInt64Param(q.Get("thread_id"))
	if err != nil {
		return sync.PollRequest{}, pkg.ErrBadRequest
	}
	lastTs, err := parseInt64Param(q.Get("last_ts"))
	if err != nil {
		return sync.PollRequest{}, pkg.ErrBadRequest
	}
	lastID, err := parseInt64Param(q.Get("last_id"))
	if err != nil {
		return sync.PollRequest{}, pkg.ErrBadRequest
	}
	timeoutSeconds, err := parseInt64Param(q.Get("timeout_seconds"))
	if err != nil {
		return sync.PollRequest{}, pkg.ErrBadRequest
	}

	return sync.PollRequest{
		Scope:    models.Scope{ChannelID: channelID, ThreadID: threadID},
		Cursor:   models.Cursor{Timestamp: lastTs, MessageID: lastID},
		ViewerID: userID,
		Blocking: q.Get("mode") == "blocking",
		Timeout:  time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// parseInt64Param, boş string'i 0 sayar, geçersiz sayıyı hata yapar.
func parseInt64Param(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
