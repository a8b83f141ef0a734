package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

const sessionContextKey = "session"

// resolveSession восстанавливает сессию из bearer-токена
// Отсутствие или невалидность токена — не ошибка здесь,
// решение принимает requireRoles
func (c *BookingController) resolveSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.Next()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		session, err := c.access.Resume(ctx.Request.Context(), token)
		if err != nil {
			c.logger.Debug("http.session.resume_failed", out.LogFields{
				"error": err.Error(),
			})
			ctx.Next()
			return
		}

		ctx.Set(sessionContextKey, session)
		ctx.Next()
	}
}

func sessionFromContext(ctx *gin.Context) *domain.Session {
	value, exists := ctx.Get(sessionContextKey)
	if !exists {
		return nil
	}
	session, ok := value.(*domain.Session)
	if !ok {
		return nil
	}
	return session
}

// requireRoles транслирует решение Access Gate в HTTP-статусы:
// нет сессии — 401 с редиректом на вход,
// не хватает ролей — 403 с редиректом на дашборд
func (c *BookingController) requireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session := sessionFromContext(ctx)
		decision := c.access.Authorize(session, roles, ctx.Request.URL.Path)

		if decision.Allowed {
			ctx.Next()
			return
		}

		status := http.StatusForbidden
		if decision.RedirectTo == domain.RedirectLogin {
			status = http.StatusUnauthorized
		}

		ctx.AbortWithStatusJSON(status, gin.H{
			"error":    "access denied",
			"redirect": decision.RedirectTo,
			"from":     decision.From,
		})
	}
}
