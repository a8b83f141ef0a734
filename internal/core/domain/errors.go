package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSlotTaken — шлюз отклонил вставку из-за конфликта уникальности слота
var ErrSlotTaken = errors.New("slot already taken")

// ErrSessionExpired — токен сессии истек
var ErrSessionExpired = errors.New("session expired")

// ValidationError — входные данные не прошли предусловия, шлюз не вызывался
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// GatewayReadError — не удалось чтение из шлюза
type GatewayReadError struct {
	Resource string
	Err      error
}

func (e *GatewayReadError) Error() string {
	return fmt.Sprintf("gateway read failed for %s: %v", e.Resource, e.Err)
}

func (e *GatewayReadError) Unwrap() error {
	return e.Err
}

// GatewayWriteError — не удалось запись в шлюз, без автоматических ретраев
type GatewayWriteError struct {
	Err error
}

func (e *GatewayWriteError) Error() string {
	return fmt.Sprintf("gateway write failed: %v", e.Err)
}

func (e *GatewayWriteError) Unwrap() error {
	return e.Err
}

// TransitionError — недопустимый переход статуса записи на прием
type TransitionError struct {
	From   AppointmentStatus
	Action StatusAction
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s appointment in status %q", e.Action, e.From)
}
