package services

import (
	"context"
	"time"

	"github.com/suchimauz/hospital-booking-service/internal/config"
	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

type AccessService struct {
	auth   out.AuthPort
	logger out.LoggerPort
	cfg    *config.Config
}

func NewAccessService(auth out.AuthPort, logger out.LoggerPort, cfg *config.Config) *AccessService {
	return &AccessService{
		auth:   auth,
		logger: logger.WithModule("AccessService"),
		cfg:    cfg,
	}
}

func (s *AccessService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Warn("auth.sign_in.failed", out.LogFields{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("auth.sign_in.done", out.LogFields{
		"userId": session.UserID,
		"roles":  session.Roles,
	})
	return session, nil
}

func (s *AccessService) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.Session, error) {
	session, err := s.auth.SignUp(ctx, email, password, metadata)
	if err != nil {
		s.logger.Warn("auth.sign_up.failed", out.LogFields{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("auth.sign_up.done", out.LogFields{
		"userId": session.UserID,
	})
	return session, nil
}

func (s *AccessService) SignOut(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}

	if err := s.auth.SignOut(ctx, session.AccessToken); err != nil {
		s.logger.Warn("auth.sign_out.failed", out.LogFields{
			"userId": session.UserID,
			"error":  err.Error(),
		})
		return err
	}

	s.logger.Info("auth.sign_out.done", out.LogFields{
		"userId": session.UserID,
	})
	return nil
}

func (s *AccessService) Resume(ctx context.Context, accessToken string) (*domain.Session, error) {
	return s.auth.RestoreSession(ctx, accessToken)
}

// Authorize решает, пускать ли вызывающего к защищенному ресурсу
// Роли сверяются по принципу ИЛИ: достаточно одной из требуемых
func (s *AccessService) Authorize(session *domain.Session, requiredRoles []string, from string) domain.AccessDecision {
	if session == nil {
		return domain.AccessDecision{
			Allowed:    false,
			RedirectTo: domain.RedirectLogin,
			From:       from,
		}
	}

	if len(requiredRoles) == 0 {
		return domain.AccessDecision{Allowed: true}
	}

	if session.HasAnyRole(requiredRoles) {
		return domain.AccessDecision{Allowed: true}
	}

	// Аутентифицирован, но не хватает ролей — на дашборд, не на вход
	s.logger.Debug("auth.authorize.insufficient_roles", out.LogFields{
		"userId":   session.UserID,
		"required": requiredRoles,
		"roles":    session.Roles,
	})
	return domain.AccessDecision{
		Allowed:    false,
		RedirectTo: domain.RedirectDashboard,
		From:       from,
	}
}

// RefreshRoles перечитывает роли из шлюза для уже установленной сессии
// Обычно роли живут все время сессии, хук нужен после смены прав персоналом
func (s *AccessService) RefreshRoles(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}

	roles, err := s.auth.GetUserRoles(ctx, session.UserID)
	if err != nil {
		s.logger.Warn("auth.roles.refresh_failed", out.LogFields{
			"userId": session.UserID,
			"error":  err.Error(),
		})
		return err
	}

	session.Roles = roles
	s.logger.Debug("auth.roles.refreshed", out.LogFields{
		"userId": session.UserID,
		"roles":  roles,
	})
	return nil
}

// WatchSession периодически перепроверяет сессию, пока не отменен контекст
// При истечении один раз вызывает onExpired и завершается
func (s *AccessService) WatchSession(ctx context.Context, session *domain.Session, onExpired func()) {
	ticker := time.NewTicker(s.cfg.Auth.SessionRecheckInterval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if session.Expired(time.Now()) {
					s.logger.Info("auth.session.expired", out.LogFields{
						"userId": session.UserID,
					})
					onExpired()
					return
				}

				if _, err := s.auth.RestoreSession(ctx, session.AccessToken); err != nil {
					s.logger.Warn("auth.session.recheck_failed", out.LogFields{
						"userId": session.UserID,
						"error":  err.Error(),
					})
					onExpired()
					return
				}
			}
		}
	}()
}
