package out

import (
	"context"

	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
)

// AuthPort — аутентификация внешнего шлюза
// Реализация загружает роли при установке сессии, дальше они живут на сессии
type AuthPort interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error

	// Восстановление сессии из access-токена без повторного входа
	RestoreSession(ctx context.Context, accessToken string) (*domain.Session, error)

	GetUserRoles(ctx context.Context, userID string) ([]string, error)
}
