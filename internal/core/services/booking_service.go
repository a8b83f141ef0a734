package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/suchimauz/hospital-booking-service/internal/config"
	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

const (
	fallbackPatientName = "Unknown Patient"
	fallbackDoctorName  = "Unknown Doctor"
)

type BookingService struct {
	gateway out.GatewayPort
	cache   out.SlotCachePort
	logger  out.LoggerPort
	cfg     *config.Config

	defaultStart json_types.TimeOfDay
	defaultEnd   json_types.TimeOfDay
}

func NewBookingService(
	gateway out.GatewayPort,
	cache out.SlotCachePort,
	logger out.LoggerPort,
	cfg *config.Config,
) *BookingService {
	defaultStart, err := json_types.ParseTimeOfDay(cfg.Booking.DefaultStartTime)
	if err != nil {
		defaultStart = json_types.NewTimeOfDay(9, 0)
	}
	defaultEnd, err := json_types.ParseTimeOfDay(cfg.Booking.DefaultEndTime)
	if err != nil {
		defaultEnd = json_types.NewTimeOfDay(17, 0)
	}

	return &BookingService{
		gateway:      gateway,
		cache:        cache,
		logger:       logger.WithModule("BookingService"),
		cfg:          cfg,
		defaultStart: defaultStart,
		defaultEnd:   defaultEnd,
	}
}

func (s *BookingService) cacheEnabled() bool {
	return s.cache != nil && s.cfg.Cache.Enabled
}

func (s *BookingService) GetAvailableSlots(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, error) {
	s.logger.Debug("slots.resolve.started", out.LogFields{
		"doctorId": doctorID,
		"date":     date.String(),
	})

	// Проверяем кэш до похода в шлюз
	if s.cacheEnabled() {
		if slots, exists := s.cache.GetSlots(ctx, doctorID, date); exists {
			s.logger.Debug("slots.resolve.cache.hit", out.LogFields{
				"doctorId":   doctorID,
				"date":       date.String(),
				"slotsCount": len(slots),
			})
			return slots, nil
		}
	}

	doctor, err := s.gateway.GetDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Error("slots.resolve.doctor.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"policy":   s.cfg.Booking.DoctorReadPolicy,
			"error":    err.Error(),
		})
		// Безопасного дефолта для часов врача нет — закрываемся
		if s.cfg.Booking.DoctorReadPolicy == config.PolicyFailClosed {
			return []json_types.TimeOfDay{}, nil
		}
		return nil, &domain.GatewayReadError{Resource: "doctor", Err: err}
	}

	// Отсутствующий врач — нечего бронировать, не ошибка
	if doctor == nil {
		s.logger.Warn("slots.resolve.doctor.not_found", out.LogFields{
			"doctorId": doctorID,
		})
		return []json_types.TimeOfDay{}, nil
	}

	if !doctor.WorksOn(date.Weekday()) {
		s.logger.Debug("slots.resolve.weekday.unavailable", out.LogFields{
			"doctorId": doctorID,
			"weekday":  date.Weekday(),
		})
		empty := []json_types.TimeOfDay{}
		// Пустой результат тоже кэшируем, выходные запрашивают часто
		if s.cacheEnabled() {
			s.cache.StoreSlots(ctx, doctorID, date, empty)
		}
		return empty, nil
	}

	startTime, endTime := doctor.WorkingHours(s.defaultStart, s.defaultEnd)
	candidates := GenerateTimeSlots(startTime, endTime, s.cfg.SlotInterval())

	available, degraded := s.filterBookedTimes(ctx, doctorID, date, candidates)

	// Деградированный результат живет один запрос и в кэш не попадает
	if s.cacheEnabled() && !degraded {
		s.cache.StoreSlots(ctx, doctorID, date, available)
	}

	s.logger.Debug("slots.resolve.done", out.LogFields{
		"doctorId":        doctorID,
		"date":            date.String(),
		"candidatesCount": len(candidates),
		"availableCount":  len(available),
	})

	return available, nil
}

// filterBookedTimes убирает занятые времена из кандидатов, сохраняя порядок
// Сбой чтения занятых времен не отбрасывает уже рассчитанных кандидатов,
// но такой результат помечается деградированным
func (s *BookingService) filterBookedTimes(ctx context.Context, doctorID string, date json_types.Date, candidates []json_types.TimeOfDay) ([]json_types.TimeOfDay, bool) {
	bookedTimes, err := s.gateway.GetBookedTimes(ctx, doctorID, date)
	if err != nil {
		s.logger.Error("slots.resolve.booked.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date.String(),
			"policy":   s.cfg.Booking.BookedReadPolicy,
			"error":    err.Error(),
		})
		if s.cfg.Booking.BookedReadPolicy == config.PolicyDegradeOpen {
			return candidates, true
		}
		return []json_types.TimeOfDay{}, true
	}

	available := make([]json_types.TimeOfDay, 0, len(candidates))
	for _, slot := range candidates {
		booked := false
		for _, bookedTime := range bookedTimes {
			if slot.Equal(bookedTime) {
				booked = true
				break
			}
		}
		if !booked {
			available = append(available, slot)
		}
	}

	return available, false
}

func (s *BookingService) BookAppointment(ctx context.Context, req domain.BookingRequest) (*domain.Appointment, error) {
	rec, err := s.validateBookingRequest(req)
	if err != nil {
		s.logger.Warn("booking.create.validation_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("booking.create.started", out.LogFields{
		"patientId": rec.PatientID,
		"doctorId":  rec.DoctorID,
		"date":      rec.Date.String(),
		"time":      rec.Time.String(),
	})

	appointment, err := s.gateway.CreateAppointment(ctx, *rec)
	if err != nil {
		s.logger.Error("booking.create.insert_failed", out.LogFields{
			"doctorId": rec.DoctorID,
			"date":     rec.Date.String(),
			"time":     rec.Time.String(),
			"error":    err.Error(),
		})
		// Конфликт слота отличаем от прочих сбоев записи
		if errors.Is(err, domain.ErrSlotTaken) {
			return nil, err
		}
		return nil, &domain.GatewayWriteError{Err: err}
	}

	// Имена подтягиваем параллельно, их отсутствие не отменяет бронь
	s.resolveDisplayNames(ctx, appointment)

	// Занятые времена изменились — запись в кэше больше не актуальна
	if s.cacheEnabled() {
		s.cache.Invalidate(ctx, rec.DoctorID, rec.Date)
	}

	s.logger.Info("booking.create.done", out.LogFields{
		"appointmentId": appointment.ID,
		"status":        appointment.Status,
	})

	return appointment, nil
}

func (s *BookingService) validateBookingRequest(req domain.BookingRequest) (*domain.NewAppointment, error) {
	patientID := strings.TrimSpace(req.PatientID)
	doctorID := strings.TrimSpace(req.DoctorID)
	rawDate := strings.TrimSpace(req.Date)
	rawTime := strings.TrimSpace(req.Time)

	var missing []string
	if patientID == "" {
		missing = append(missing, "patientId")
	}
	if doctorID == "" {
		missing = append(missing, "doctorId")
	}
	if rawDate == "" {
		missing = append(missing, "date")
	}
	if rawTime == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}

	date, err := json_types.ParseDate(rawDate)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []string{"date"}}
	}
	timeOfDay, err := json_types.ParseTimeOfDay(rawTime)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []string{"time"}}
	}

	// Дефолт формы записи — Checkup
	appointmentType := domain.AppointmentType(strings.TrimSpace(req.Type))
	if appointmentType == "" {
		appointmentType = domain.AppointmentTypeCheckup
	}
	if !domain.IsValidAppointmentType(appointmentType) {
		return nil, &domain.ValidationError{Fields: []string{"type"}}
	}

	return &domain.NewAppointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      timeOfDay,
		Type:      appointmentType,
		Status:    domain.AppointmentStatusScheduled,
		Notes:     strings.TrimSpace(req.Notes),
	}, nil
}

func (s *BookingService) resolveDisplayNames(ctx context.Context, appointment *domain.Appointment) {
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()

		patient, err := s.gateway.GetPatient(ctx, appointment.PatientID)
		if err != nil || patient == nil {
			s.logger.Warn("booking.names.patient_lookup_failed", out.LogFields{
				"patientId": appointment.PatientID,
			})
			appointment.PatientName = fallbackPatientName
			return
		}
		appointment.PatientName = patient.Name
	}()
	go func() {
		defer wg.Done()

		doctor, err := s.gateway.GetDoctor(ctx, appointment.DoctorID)
		if err != nil || doctor == nil {
			s.logger.Warn("booking.names.doctor_lookup_failed", out.LogFields{
				"doctorId": appointment.DoctorID,
			})
			appointment.DoctorName = fallbackDoctorName
			return
		}
		appointment.DoctorName = doctor.Name
	}()
	wg.Wait()
}

func (s *BookingService) TransitionStatus(ctx context.Context, appointmentID string, action domain.StatusAction) (*domain.Appointment, error) {
	appointment, err := s.gateway.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, &domain.GatewayReadError{Resource: "appointment", Err: err}
	}
	if appointment == nil {
		return nil, &domain.GatewayReadError{
			Resource: "appointment",
			Err:      fmt.Errorf("appointment %s not found", appointmentID),
		}
	}

	next, err := domain.NextStatus(appointment.Status, action)
	if err != nil {
		s.logger.Warn("booking.transition.rejected", out.LogFields{
			"appointmentId": appointmentID,
			"from":          appointment.Status,
			"action":        action,
		})
		return nil, err
	}

	if err := s.gateway.UpdateAppointmentStatus(ctx, appointmentID, next); err != nil {
		s.logger.Error("booking.transition.update_failed", out.LogFields{
			"appointmentId": appointmentID,
			"to":            next,
			"error":         err.Error(),
		})
		return nil, &domain.GatewayWriteError{Err: err}
	}

	s.logger.Info("booking.transition.done", out.LogFields{
		"appointmentId": appointmentID,
		"from":          appointment.Status,
		"to":            next,
	})

	appointment.Status = next
	return appointment, nil
}
