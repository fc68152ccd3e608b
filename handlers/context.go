package handlers

import (
	"net/http"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
)

// contextKey, context.WithValue için özel tip.
// String yerine özel tip kullanmak, farklı paketlerin aynı string key ile
// birbirinin context değerini ezmesini önler.
type contextKey string

// UserContextKey, auth middleware'ının doğrulanmış kullanıcıyı koyduğu key.
const UserContextKey contextKey = "user"

// currentUser, context'ten doğrulanmış kullanıcıyı çıkarır.
// Auth middleware'ından geçmemiş bir route'ta çağrılırsa (false) döner.
func currentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok
}

// requireUser, currentUser + 401 yazma kalıbını tekilleştirir.
// Dönen bool false ise response zaten yazılmıştır, handler return etmelidir.
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return nil, false
	}
	return user, true
}
