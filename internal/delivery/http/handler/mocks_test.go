package handler

import (
	"context"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	return tokens, args.Error(1)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, session *entity.Session, req *dto.LogoutRequest) error {
	return m.Called(ctx, session, req).Error(0)
}

func (m *mockAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	return tokens, args.Error(1)
}

func (m *mockAuthUsecase) Me(ctx context.Context, session *entity.Session) (*dto.UserResponse, error) {
	args := m.Called(ctx, session)
	user, _ := args.Get(0).(*dto.UserResponse)
	return user, args.Error(1)
}

func (m *mockAuthUsecase) ChangePassword(ctx context.Context, session *entity.Session, req *dto.ChangePasswordRequest) error {
	return m.Called(ctx, session, req).Error(0)
}

type mockAppointmentUsecase struct {
	mock.Mock
}

func (m *mockAppointmentUsecase) CreateAppointment(ctx context.Context, session *entity.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, session, req)
	appt, _ := args.Get(0).(*dto.AppointmentResponse)
	return appt, args.Error(1)
}

func (m *mockAppointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, id)
	appt, _ := args.Get(0).(*dto.AppointmentResponse)
	return appt, args.Error(1)
}

func (m *mockAppointmentUsecase) ListAppointments(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, req)
	list, _ := args.Get(0).(*dto.AppointmentListResponse)
	return list, args.Error(1)
}

func (m *mockAppointmentUsecase) GetSummary(ctx context.Context, date string) (*dto.AppointmentSummaryResponse, error) {
	args := m.Called(ctx, date)
	summary, _ := args.Get(0).(*dto.AppointmentSummaryResponse)
	return summary, args.Error(1)
}

func (m *mockAppointmentUsecase) UpdateAppointment(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, session, id, req)
	appt, _ := args.Get(0).(*dto.AppointmentResponse)
	return appt, args.Error(1)
}

func (m *mockAppointmentUsecase) CancelAppointment(ctx context.Context, session *entity.Session, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, session, id)
	appt, _ := args.Get(0).(*dto.AppointmentResponse)
	return appt, args.Error(1)
}

func (m *mockAppointmentUsecase) ChangeStatus(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, session, id, req)
	appt, _ := args.Get(0).(*dto.AppointmentResponse)
	return appt, args.Error(1)
}

type mockPublicBookingUsecase struct {
	mock.Mock
}

func (m *mockPublicBookingUsecase) CreateBooking(ctx context.Context, req *dto.PublicBookingRequest) (*dto.PublicBookingResponse, error) {
	args := m.Called(ctx, req)
	booking, _ := args.Get(0).(*dto.PublicBookingResponse)
	return booking, args.Error(1)
}

type mockDoctorUsecase struct {
	mock.Mock
}

func (m *mockDoctorUsecase) CreateDoctor(ctx context.Context, session *entity.Session, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, session, req)
	doctor, _ := args.Get(0).(*dto.DoctorResponse)
	return doctor, args.Error(1)
}

func (m *mockDoctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, id)
	doctor, _ := args.Get(0).(*dto.DoctorResponse)
	return doctor, args.Error(1)
}

func (m *mockDoctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).(*dto.DoctorListResponse)
	return list, args.Error(1)
}

func (m *mockDoctorUsecase) UpdateDoctor(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, session, id, req)
	doctor, _ := args.Get(0).(*dto.DoctorResponse)
	return doctor, args.Error(1)
}

func (m *mockDoctorUsecase) DeleteDoctor(ctx context.Context, session *entity.Session, id uuid.UUID) error {
	return m.Called(ctx, session, id).Error(0)
}

func (m *mockDoctorUsecase) UploadAvatar(ctx context.Context, session *entity.Session, id uuid.UUID, upload *dto.AvatarUpload) (*dto.DoctorResponse, error) {
	args := m.Called(ctx, session, id, upload)
	doctor, _ := args.Get(0).(*dto.DoctorResponse)
	return doctor, args.Error(1)
}

func (m *mockDoctorUsecase) GetSlots(ctx context.Context, id uuid.UUID, date string) (*dto.DoctorSlotsResponse, error) {
	args := m.Called(ctx, id, date)
	slots, _ := args.Get(0).(*dto.DoctorSlotsResponse)
	return slots, args.Error(1)
}
