package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// TokenParser проверяет токен доступа.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// SessionLoader читает пользователя из cookie-сессии.
type SessionLoader interface {
	Load(r *http.Request) (models.Identity, bool)
}

// UserGetter читает актуальную учётную запись пользователя.
type UserGetter interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
}

// Authenticator определяет пользователя запроса по заголовку
// Authorization: Bearer или, если заголовка нет, по cookie-сессии.
// Имя и роль берутся из хранилища на каждый запрос, поэтому смена роли
// действует сразу, а удалённый пользователь теряет доступ.
type Authenticator struct {
	log      *slog.Logger
	tokens   TokenParser
	sessions SessionLoader
	users    UserGetter
}

func NewAuthenticator(log *slog.Logger, tokens TokenParser, sessions SessionLoader, users UserGetter) *Authenticator {
	return &Authenticator{log: log, tokens: tokens, sessions: sessions, users: users}
}

// current заменяет данные из токена или сессии текущими данными пользователя.
func (a *Authenticator) current(ctx context.Context, id models.Identity) (models.Identity, error) {
	user, err := a.users.GetUser(ctx, id.UserID)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// identify возвращает пользователя запроса. bad=true означает, что
// заголовок Authorization передан, но токен недействителен.
func (a *Authenticator) identify(r *http.Request, log *slog.Logger) (id models.Identity, ok, bad bool) {
	header := r.Header.Get("Authorization")
	if header != "" {
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return models.Identity{}, false, true
		}
		claims, err := a.tokens.ParseToken(strings.TrimSpace(tokenStr))
		if err != nil {
			log.Info("invalid or expired token", sl.Err(err))
			return models.Identity{}, false, true
		}
		id, err := claims.Identity()
		if err != nil || id.UserID <= 0 {
			log.Info("token without valid subject", sl.Err(err))
			return models.Identity{}, false, true
		}
		return id, true, false
	}
	if a.sessions != nil {
		if id, ok := a.sessions.Load(r); ok {
			return id, true, false
		}
	}
	return models.Identity{}, false, false
}

// Required пропускает только аутентифицированные запросы, остальным отвечает 401.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "middlewarectx.Authenticator.Required"
		log := a.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok, bad := a.identify(r, log)
		if bad {
			response.Fail(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, "Not authenticated")
			return
		}
		current, err := a.current(r.Context(), id)
		if errors.Is(err, apperr.ErrNotFound) {
			log.Info("credentials of a deleted user", slog.Int("user_id", id.UserID))
			response.Fail(w, r, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if err != nil {
			response.FromError(w, r, log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), current)))
	})
}

// Optional добавляет пользователя в контекст, если он определён, и
// пропускает анонимные запросы. Недействительный токен игнорируется.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "middlewarectx.Authenticator.Optional"
		log := a.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		if id, ok, _ := a.identify(r, log); ok {
			current, err := a.current(r.Context(), id)
			switch {
			case err == nil:
				r = r.WithContext(WithIdentity(r.Context(), current))
			case !errors.Is(err, apperr.ErrNotFound):
				log.Warn("failed to load user, serving anonymously", sl.Err(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin пропускает только администраторов. Ставится после Required.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !id.IsAdmin() {
			response.Fail(w, r, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
