package in

import (
	"context"

	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
)

type BookingUseCase interface {
	// Доступные слоты врача на дату, с учетом занятых времен
	GetAvailableSlots(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, error)

	// Создание записи на прием со статусом scheduled
	BookAppointment(ctx context.Context, req domain.BookingRequest) (*domain.Appointment, error)

	// Перевод статуса записи по действию confirm/cancel/complete
	TransitionStatus(ctx context.Context, appointmentID string, action domain.StatusAction) (*domain.Appointment, error)
}
