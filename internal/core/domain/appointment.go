package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type AppointmentType string

const (
	AppointmentTypeCheckup      AppointmentType = "Checkup"
	AppointmentTypeConsultation AppointmentType = "Consultation"
	AppointmentTypeSurgery      AppointmentType = "Surgery"
	AppointmentTypeFollowUp     AppointmentType = "Follow-up"
)

func IsValidAppointmentType(t AppointmentType) bool {
	switch t {
	case AppointmentTypeCheckup, AppointmentTypeConsultation, AppointmentTypeSurgery, AppointmentTypeFollowUp:
		return true
	}
	return false
}

type StatusAction string

const (
	StatusActionConfirm  StatusAction = "confirm"
	StatusActionCancel   StatusAction = "cancel"
	StatusActionComplete StatusAction = "complete"
)

type Appointment struct {
	ID          uuid.UUID            `json:"id"`
	PatientID   string               `json:"patientId"`
	PatientName string               `json:"patientName,omitempty"`
	DoctorID    string               `json:"doctorId"`
	DoctorName  string               `json:"doctorName,omitempty"`
	Date        json_types.Date      `json:"date"`
	Time        json_types.TimeOfDay `json:"time"`
	Type        AppointmentType      `json:"type"`
	Status      AppointmentStatus    `json:"status"`
	Notes       string               `json:"notes,omitempty"`
	CreatedAt   time.Time            `json:"createdAt,omitempty"`
	UpdatedAt   time.Time            `json:"updatedAt,omitempty"`
}

// NewAppointment — валидированная запись для вставки через шлюз
type NewAppointment struct {
	PatientID string
	DoctorID  string
	Date      json_types.Date
	Time      json_types.TimeOfDay
	Type      AppointmentType
	Status    AppointmentStatus
	Notes     string
}

// BookingRequest — сырые данные от клиента, до валидации
type BookingRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
}

// NextStatus вычисляет новый статус по действию
// cancelled и completed — терминальные, из них переходов нет
func NextStatus(current AppointmentStatus, action StatusAction) (AppointmentStatus, error) {
	if current == AppointmentStatusCancelled || current == AppointmentStatusCompleted {
		return "", &TransitionError{From: current, Action: action}
	}

	switch action {
	case StatusActionConfirm:
		if current != AppointmentStatusScheduled {
			return "", &TransitionError{From: current, Action: action}
		}
		return AppointmentStatusConfirmed, nil
	case StatusActionCancel:
		return AppointmentStatusCancelled, nil
	case StatusActionComplete:
		return AppointmentStatusCompleted, nil
	}

	return "", &TransitionError{From: current, Action: action}
}
