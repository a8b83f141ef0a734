package in

import (
	"context"

	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
)

type AccessUseCase interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.Session, error)
	SignOut(ctx context.Context, session *domain.Session) error

	// Восстановление сессии из bearer-токена запроса
	Resume(ctx context.Context, accessToken string) (*domain.Session, error)

	// Проверка доступа: nil сессия — редирект на вход,
	// недостаточно ролей — редирект на дашборд
	Authorize(session *domain.Session, requiredRoles []string, from string) domain.AccessDecision

	// Явное перечитывание ролей действующей сессии
	RefreshRoles(ctx context.Context, session *domain.Session) error

	// Периодическая проверка сессии, onExpired вызывается один раз при истечении
	WatchSession(ctx context.Context, session *domain.Session, onExpired func())
}
