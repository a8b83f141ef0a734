package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/hospital-booking-service/internal/config"
	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

// SupabaseAdapter — шлюз к хостед-сервису данных: PostgREST для таблиц,
// GoTrue для аутентификации
type SupabaseAdapter struct {
	client     *http.Client
	baseURL    string
	anonKey    string
	serviceKey string
	logger     out.LoggerPort
}

func NewSupabaseAdapter(cfg *config.Config, logger out.LoggerPort) *SupabaseAdapter {
	return &SupabaseAdapter{
		client:     &http.Client{Timeout: cfg.Supabase.RequestTimeout},
		baseURL:    cfg.Supabase.URL,
		anonKey:    cfg.Supabase.AnonKey,
		serviceKey: cfg.Supabase.ServiceKey,
		logger:     logger,
	}
}

func (a *SupabaseAdapter) restRequest(ctx context.Context, method, table string, query nurl.Values, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", a.baseURL, table)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("apikey", a.anonKey)
	req.Header.Set("Authorization", "Bearer "+a.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (a *SupabaseAdapter) GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	query := nurl.Values{}
	query.Add("id", "eq."+doctorID)
	query.Add("limit", "1")

	req, err := a.restRequest(ctx, http.MethodGet, "doctors", query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("supabase.doctor.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("supabase.doctor.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"status":   resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var doctors []domain.Doctor
	if err := json.NewDecoder(resp.Body).Decode(&doctors); err != nil {
		a.logger.Error("supabase.doctor.decode_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	// Пустой ответ — врача нет, это не ошибка
	if len(doctors) == 0 {
		return nil, nil
	}

	return &doctors[0], nil
}

func (a *SupabaseAdapter) GetPatient(ctx context.Context, patientID string) (*domain.Patient, error) {
	query := nurl.Values{}
	query.Add("id", "eq."+patientID)
	query.Add("limit", "1")

	req, err := a.restRequest(ctx, http.MethodGet, "patients", query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("supabase.patient.fetch_failed", out.LogFields{
			"patientId": patientID,
			"error":     err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var patients []domain.Patient
	if err := json.NewDecoder(resp.Body).Decode(&patients); err != nil {
		return nil, err
	}

	if len(patients) == 0 {
		return nil, nil
	}

	return &patients[0], nil
}

func (a *SupabaseAdapter) GetBookedTimes(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, error) {
	query := nurl.Values{}
	query.Add("doctor_id", "eq."+doctorID)
	query.Add("date", "eq."+date.String())
	query.Add("select", "time")
	query.Add("order", "time.asc")

	req, err := a.restRequest(ctx, http.MethodGet, "appointments", query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("supabase.booked_times.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date.String(),
			"error":    err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("supabase.booked_times.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date.String(),
			"status":   resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rows []struct {
		Time json_types.TimeOfDay `json:"time"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}

	bookedTimes := make([]json_types.TimeOfDay, 0, len(rows))
	for _, row := range rows {
		bookedTimes = append(bookedTimes, row.Time)
	}

	a.logger.Debug("supabase.booked_times.fetch_success", out.LogFields{
		"doctorId": doctorID,
		"date":     date.String(),
		"count":    len(bookedTimes),
	})

	return bookedTimes, nil
}

// appointmentRow — строка таблицы appointments как ее отдает PostgREST
type appointmentRow struct {
	ID        uuid.UUID            `json:"id"`
	PatientID string               `json:"patient_id"`
	DoctorID  string               `json:"doctor_id"`
	Date      json_types.Date      `json:"date"`
	Time      json_types.TimeOfDay `json:"time"`
	Type      string               `json:"type"`
	Status    string               `json:"status"`
	Notes     *string              `json:"notes"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (r *appointmentRow) toDomain() *domain.Appointment {
	appointment := &domain.Appointment{
		ID:        r.ID,
		PatientID: r.PatientID,
		DoctorID:  r.DoctorID,
		Date:      r.Date,
		Time:      r.Time,
		Type:      domain.AppointmentType(r.Type),
		Status:    domain.AppointmentStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Notes != nil {
		appointment.Notes = *r.Notes
	}
	return appointment
}

func (a *SupabaseAdapter) GetAppointment(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	query := nurl.Values{}
	query.Add("id", "eq."+appointmentID)
	query.Add("limit", "1")

	req, err := a.restRequest(ctx, http.MethodGet, "appointments", query, nil)
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

	var rows []appointmentRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("appointment %s not found", appointmentID)
	}

	return rows[0].toDomain(), nil
}

func (a *SupabaseAdapter) CreateAppointment(ctx context.Context, rec domain.NewAppointment) (*domain.Appointment, error) {
	payload := map[string]interface{}{
		"patient_id": rec.PatientID,
		"doctor_id":  rec.DoctorID,
		"date":       rec.Date.String(),
		"time":       rec.Time.String(),
		"type":       string(rec.Type),
		"status":     string(rec.Status),
	}
	if rec.Notes != "" {
		payload["notes"] = rec.Notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := a.restRequest(ctx, http.MethodPost, "appointments", nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("supabase.appointment.insert_failed", out.LogFields{
			"doctorId": rec.DoctorID,
			"error":    err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	// Конфликт уникальности (doctor_id, date, time) — слот уже занят
	if resp.StatusCode == http.StatusConflict {
		a.logger.Warn("supabase.appointment.slot_conflict", out.LogFields{
			"doctorId": rec.DoctorID,
			"date":     rec.Date.String(),
			"time":     rec.Time.String(),
		})
		return nil, fmt.Errorf("%w: %s %s", domain.ErrSlotTaken, rec.Date.String(), rec.Time.String())
	}

	if resp.StatusCode != http.StatusCreated {
		a.logger.Error("supabase.appointment.insert_failed", out.LogFields{
			"doctorId": rec.DoctorID,
			"status":   resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rows []appointmentRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		a.logger.Error("supabase.appointment.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert returned no representation")
	}

	a.logger.Debug("supabase.appointment.insert_success", out.LogFields{
		"appointmentId": rows[0].ID,
	})

	return rows[0].toDomain(), nil
}

func (a *SupabaseAdapter) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus) error {
	query := nurl.Values{}
	query.Add("id", "eq."+appointmentID)

	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return err
	}

	req, err := a.restRequest(ctx, http.MethodPatch, "appointments", query, bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("supabase.appointment.update_failed", out.LogFields{
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		a.logger.Error("supabase.appointment.update_failed", out.LogFields{
			"appointmentId": appointmentID,
			"status":        resp.StatusCode,
		})
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
