package middlewarectx

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/models"
)

const (
	sessionName = "storefront.sid"
	keyUserID   = "uid"
	keyUsername = "username"
	keyRole     = "role"
)

// Sessions хранит пользователя в подписанной cookie.
type Sessions struct {
	store sessions.Store
}

// NewSessions создаёт cookie-хранилище сессий.
func NewSessions(cfg config.Session) *Sessions {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Save записывает пользователя в сессию.
func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, id models.Identity) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[keyUserID] = id.UserID
	sess.Values[keyUsername] = id.Username
	sess.Values[keyRole] = string(id.Role)
	return sess.Save(r, w)
}

// Clear завершает сессию.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Load возвращает пользователя из сессии. Повреждённая или чужая cookie
// считается отсутствующей сессией.
func (s *Sessions) Load(r *http.Request) (models.Identity, bool) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil || sess.IsNew {
		return models.Identity{}, false
	}
	uid, ok := sess.Values[keyUserID].(int)
	if !ok || uid <= 0 {
		return models.Identity{}, false
	}
	username, _ := sess.Values[keyUsername].(string)
	role, _ := sess.Values[keyRole].(string)
	return models.Identity{UserID: uid, Username: username, Role: models.Role(role)}, true
}
