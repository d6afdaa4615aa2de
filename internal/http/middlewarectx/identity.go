// Package middlewarectx содержит HTTP middleware витрины: аутентификацию по
// JWT или cookie-сессии, проверку роли, ограничение частоты и метрики.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey ключ аутентифицированного пользователя в контексте.
const IdentityKey Key = "identity"

// WithIdentity возвращает контекст с пользователем запроса.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom извлекает пользователя запроса из контекста.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(models.Identity)
	return id, ok && id.UserID > 0
}
