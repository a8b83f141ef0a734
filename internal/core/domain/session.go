package domain

import "time"

const (
	RedirectLogin     = "/login"
	RedirectDashboard = "/dashboard"
)

// Session — сессия пользователя с ролями, полученными при входе
// Роли кэшируются на время жизни сессии и не перечитываются на каждую проверку
type Session struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	AccessToken string    `json:"-"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Roles       []string  `json:"roles"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// HasAnyRole — достаточно любой из требуемых ролей (логическое ИЛИ)
func (s *Session) HasAnyRole(required []string) bool {
	for _, req := range required {
		for _, role := range s.Roles {
			if role == req {
				return true
			}
		}
	}
	return false
}

// AccessDecision — результат проверки доступа
type AccessDecision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirectTo,omitempty"`
	// From — исходный путь, чтобы вернуться после входа
	From string `json:"from,omitempty"`
}
