package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/edulink/chatsync/pkg"
)

// Recover, handler zincirindeki panic'leri yakalayıp generic 500 envelope'una
// çevirir. Panic detayı sadece loglanır — stack trace veya internal mesaj
// client'a asla sızmaz.
//
// Tek bir bozuk request tüm process'i düşürmemelidir: net/http her bağlantıyı
// ayrı goroutine'de çalıştırır ve yakalanmayan panic process'i sonlandırır.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.Printf("[panic] %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
				pkg.ErrorWithMessage(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
