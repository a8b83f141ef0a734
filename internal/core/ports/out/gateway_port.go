package out

import (
	"context"

	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
)

// GatewayPort — табличный интерфейс внешнего сервиса данных
// Шлюз владеет записями Doctor/Patient/Appointment, мы их только читаем и вставляем
type GatewayPort interface {
	// Возвращает nil, nil если врач не найден
	GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error)
	GetPatient(ctx context.Context, patientID string) (*domain.Patient, error)

	// Занятые времена для пары (врач, дата), по возрастанию
	GetBookedTimes(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, error)

	// Отсутствующая запись — ошибка, nil-результат без ошибки не возвращается
	GetAppointment(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	CreateAppointment(ctx context.Context, rec domain.NewAppointment) (*domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus) error
}
