package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (a *SupabaseAdapter) authRequest(ctx context.Context, path string, query nurl.Values, payload interface{}) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/auth/v1/%s", a.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("apikey", a.anonKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func (a *SupabaseAdapter) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	query := nurl.Values{}
	query.Add("grant_type", "password")

	req, err := a.authRequest(ctx, "token", query, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("supabase.auth.sign_in_failed", out.LogFields{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Warn("supabase.auth.sign_in_rejected", out.LogFields{
			"email":  email,
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("sign in rejected with status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}

	return a.buildSession(ctx, token), nil
}

func (a *SupabaseAdapter) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.Session, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if metadata != nil {
		payload["data"] = metadata
	}

	req, err := a.authRequest(ctx, "signup", nil, payload)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("supabase.auth.sign_up_failed", out.LogFields{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sign up rejected with status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}

	// При включенном подтверждении почты токена еще нет,
	// сессия без ролей до первого входа
	if token.AccessToken == "" {
		return &domain.Session{
			UserID: token.User.ID,
			Email:  token.User.Email,
			Roles:  []string{},
		}, nil
	}

	return a.buildSession(ctx, token), nil
}

func (a *SupabaseAdapter) SignOut(ctx context.Context, accessToken string) error {
	req, err := a.authRequest(ctx, "logout", nil, struct{}{})
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sign out rejected with status %d", resp.StatusCode)
	}

	return nil
}

// RestoreSession разбирает claims access-токена без проверки подписи:
// подпись проверяет сам шлюз при каждом запросе к нему
func (a *SupabaseAdapter) RestoreSession(ctx context.Context, accessToken string) (*domain.Session, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected token claims")
	}

	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	expiresAt := time.Time{}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		return nil, domain.ErrSessionExpired
	}

	email := ""
	if v, ok := claims["email"].(string); ok {
		email = v
	}

	session := &domain.Session{
		UserID:      userID,
		Email:       email,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		Roles:       a.loadRoles(ctx, userID),
	}

	return session, nil
}

func (a *SupabaseAdapter) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	query := nurl.Values{}
	query.Add("user_id", "eq."+userID)
	query.Add("select", "role")

	req, err := a.restRequest(ctx, http.MethodGet, "user_roles", query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rows []struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, row.Role)
	}

	return roles, nil
}

func (a *SupabaseAdapter) buildSession(ctx context.Context, token tokenResponse) *domain.Session {
	return &domain.Session{
		UserID:      token.User.ID,
		Email:       token.User.Email,
		AccessToken: token.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
		Roles:       a.loadRoles(ctx, token.User.ID),
	}
}

// loadRoles загружает роли один раз при установке сессии
// Сбой чтения ролей закрывает доступ: пустой список — самый строгий вариант
func (a *SupabaseAdapter) loadRoles(ctx context.Context, userID string) []string {
	roles, err := a.GetUserRoles(ctx, userID)
	if err != nil {
		a.logger.Warn("supabase.auth.roles_fetch_failed", out.LogFields{
			"userId": userID,
			"error":  err.Error(),
		})
		return []string{}
	}
	return roles
}
