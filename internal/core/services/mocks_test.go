package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

// Compile-time check to ensure MockGateway implements GatewayPort
var _ out.GatewayPort = (*MockGateway)(nil)

type MockGateway struct {
	GetDoctorFunc               func(ctx context.Context, doctorID string) (*domain.Doctor, error)
	GetPatientFunc              func(ctx context.Context, patientID string) (*domain.Patient, error)
	GetBookedTimesFunc          func(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, error)
	GetAppointmentFunc          func(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	CreateAppointmentFunc       func(ctx context.Context, rec domain.NewAppointment) (*domain.Appointment, error)
	UpdateAppointmentStatusFunc func(ctx context.Context, appointmentID string, status domain.AppointmentStatus) error

	GetDoctorCallCount         int32
	GetBookedTimesCallCount    int32
	CreateAppointmentCallCount int32
}

func (m *MockGateway) GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	atomic.AddInt32(&m.GetDoctorCallCount, 1)
	if m.GetDoctorFunc != nil {
		return m.GetDoctorFunc(ctx, doctorID)
	}
	return nil, nil
}

func (m *MockGateway) GetPatient(ctx context.Context, patientID string) (*domain.Patient, error) {
	if m.GetPatientFunc != nil {
		return m.GetPatientFunc(ctx, patientID)
	}
	return nil, errors.New("GetPatientFunc not implemented in mock")
}

func (m *MockGateway) GetBookedTimes(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, error) {
	atomic.AddInt32(&m.GetBookedTimesCallCount, 1)
	if m.GetBookedTimesFunc != nil {
		return m.GetBookedTimesFunc(ctx, doctorID, date)
	}
	return nil, nil
}

func (m *MockGateway) GetAppointment(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	if m.GetAppointmentFunc != nil {
		return m.GetAppointmentFunc(ctx, appointmentID)
	}
	return nil, errors.New("GetAppointmentFunc not implemented in mock")
}

func (m *MockGateway) CreateAppointment(ctx context.Context, rec domain.NewAppointment) (*domain.Appointment, error) {
	atomic.AddInt32(&m.CreateAppointmentCallCount, 1)
	if m.CreateAppointmentFunc != nil {
		return m.CreateAppointmentFunc(ctx, rec)
	}
	return nil, errors.New("CreateAppointmentFunc not implemented in mock")
}

func (m *MockGateway) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus) error {
	if m.UpdateAppointmentStatusFunc != nil {
		return m.UpdateAppointmentStatusFunc(ctx, appointmentID, status)
	}
	return nil
}

// Compile-time check to ensure MockSlotCache implements SlotCachePort
var _ out.SlotCachePort = (*MockSlotCache)(nil)

// MockSlotCache — простой кэш в map без TTL, для проверки мемоизации
type MockSlotCache struct {
	entries map[string][]json_types.TimeOfDay

	StoreCallCount      int32
	InvalidateCallCount int32
}

func NewMockSlotCache() *MockSlotCache {
	return &MockSlotCache{entries: make(map[string][]json_types.TimeOfDay)}
}

func (m *MockSlotCache) GetSlots(ctx context.Context, doctorID string, date json_types.Date) ([]json_types.TimeOfDay, bool) {
	slots, exists := m.entries[doctorID+"|"+date.String()]
	return slots, exists
}

func (m *MockSlotCache) StoreSlots(ctx context.Context, doctorID string, date json_types.Date, slots []json_types.TimeOfDay) {
	atomic.AddInt32(&m.StoreCallCount, 1)
	m.entries[doctorID+"|"+date.String()] = slots
}

func (m *MockSlotCache) Invalidate(ctx context.Context, doctorID string, date json_types.Date) {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	delete(m.entries, doctorID+"|"+date.String())
}

func (m *MockSlotCache) Sweep(ctx context.Context) {}

// Compile-time check to ensure MockAuth implements AuthPort
var _ out.AuthPort = (*MockAuth)(nil)

type MockAuth struct {
	SignInFunc         func(ctx context.Context, email, password string) (*domain.Session, error)
	SignUpFunc         func(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.Session, error)
	SignOutFunc        func(ctx context.Context, accessToken string) error
	RestoreSessionFunc func(ctx context.Context, accessToken string) (*domain.Session, error)
	GetUserRolesFunc   func(ctx context.Context, userID string) ([]string, error)

	RestoreSessionCallCount int32
}

func (m *MockAuth) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return nil, errors.New("SignInFunc not implemented in mock")
}

func (m *MockAuth) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*domain.Session, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password, metadata)
	}
	return nil, errors.New("SignUpFunc not implemented in mock")
}

func (m *MockAuth) SignOut(ctx context.Context, accessToken string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, accessToken)
	}
	return nil
}

func (m *MockAuth) RestoreSession(ctx context.Context, accessToken string) (*domain.Session, error) {
	atomic.AddInt32(&m.RestoreSessionCallCount, 1)
	if m.RestoreSessionFunc != nil {
		return m.RestoreSessionFunc(ctx, accessToken)
	}
	return nil, errors.New("RestoreSessionFunc not implemented in mock")
}

func (m *MockAuth) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	if m.GetUserRolesFunc != nil {
		return m.GetUserRolesFunc(ctx, userID)
	}
	return nil, nil
}
