package sync

import (
	gosync "sync"

	"github.com/edulink/chatsync/models"
)

// Notifier, blocking poll'leri publish anında uyandıran scope-bazlı sinyal
// mekanizmasıdır (Observer pattern).
//
// Bir "subject" (Notifier) scope başına birden fazla "observer"ı (bekleyen
// poll goroutine'i) takip eder. Bir event yayınlandığında Notifier, o
// scope'un tüm observer'larına bildirim gönderir.
//
// Bu SADECE bir hızlandırıcıdır: poller zaten her tick'te yeniden kontrol
// eder, bu yüzden kaçırılan bir wakeup doğruluğu bozmaz — sadece teslimatı
// bir tick geciktirir. Doğruluğun kaynağı her zaman queue + DB fallback'tir.
type Notifier struct {
	// waiters: scope → bekleyen goroutine'lerin kanalları.
	// map[chan]bool — Go'da set yoktur, map[K]bool kullanılır;
	// bool değeri her zaman true'dur, sadece varlık kontrolü içindir.
	waiters map[models.Scope]map[chan struct{}]bool
	mu      gosync.Mutex
}

// NewNotifier, yeni bir Notifier oluşturur.
func NewNotifier() *Notifier {
	return &Notifier{
		waiters: make(map[models.Scope]map[chan struct{}]bool),
	}
}

// Subscribe, scope için tek kullanımlık bir wakeup kanalı kaydeder.
// Dönen kanal Wake ile kapatılır; caller işi bitince Unsubscribe çağırmalıdır
// (defer ile) — aksi halde timeout'la biten poll'lerin kanalları map'te birikir.
func (n *Notifier) Subscribe(scope models.Scope) chan struct{} {
	ch := make(chan struct{})

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.waiters[scope]; !ok {
		n.waiters[scope] = make(map[chan struct{}]bool)
	}
	n.waiters[scope][ch] = true

	return ch
}

// Unsubscribe, bir wakeup kanalının kaydını siler.
// Wake tarafından zaten kaldırılmış bir kanal için no-op'tur.
func (n *Notifier) Unsubscribe(scope models.Scope, ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if chans, ok := n.waiters[scope]; ok {
		delete(chans, ch)
		if len(chans) == 0 {
			delete(n.waiters, scope)
		}
	}
}

// Wake, scope'un tüm bekleyenlerini uyandırır ve kayıtlarını temizler.
//
// Kanal close ile uyandırılır: kapalı kanaldan okuma anında döner, böylece
// aynı kanalı dinleyen select hiç bloklamaz. Her kanal tek kullanımlıktır —
// uyanan poller yeni turunda taze bir kanalla yeniden Subscribe eder.
func (n *Notifier) Wake(scope models.Scope) {
	n.mu.Lock()
	defer n.mu.Unlock()

	chans, ok := n.waiters[scope]
	if !ok {
		return
	}

	for ch := range chans {
		close(ch)
	}
	delete(n.waiters, scope)
}
