package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/converter"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultPatientSearchLimit = 50
	MaxPatientSearchLimit     = 200
)

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrPatientPhoneExists = errors.New("a patient with this phone number already exists")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, session *entity.Session, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	// GetPatient returns the patient with appointments (newest first) and medical history (oldest first).
	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientDetailResponse, error)
	// SearchPatients matches the name case-insensitively or the phone as a substring.
	SearchPatients(ctx context.Context, query string, limit int) (*dto.PatientListResponse, error)
	UpdatePatient(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, session *entity.Session, id uuid.UUID) error
	AddMedicalRecord(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.MedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	UploadAvatar(ctx context.Context, session *entity.Session, id uuid.UUID, upload *dto.AvatarUpload) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	patientRepo       repository.PatientRepository
	appointmentRepo   repository.AppointmentRepository
	medicalRecordRepo repository.MedicalRecordRepository
	activity          service.ActivityService
	avatars           service.AvatarStorage
	clock             Clock
	defaultAvatar     string
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	medicalRecordRepo repository.MedicalRecordRepository,
	activity service.ActivityService,
	avatars service.AvatarStorage,
	clock Clock,
	defaultAvatar string,
) PatientUsecase {
	return &patientUsecase{
		db:                db,
		log:               log,
		patientRepo:       patientRepo,
		appointmentRepo:   appointmentRepo,
		medicalRecordRepo: medicalRecordRepo,
		activity:          activity,
		avatars:           avatars,
		clock:             clock,
		defaultAvatar:     defaultAvatar,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, session *entity.Session, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	db := u.db.WithContext(ctx)
	phone := strings.TrimSpace(req.Phone)

	existing, err := u.patientRepo.FindByPhone(db, phone)
	if err != nil {
		u.log.Warnf("Failed to check patient phone: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrPatientPhoneExists
	}

	patient := &entity.Patient{
		Name:   strings.TrimSpace(req.Name),
		Phone:  phone,
		Avatar: u.defaultAvatar,
		Age:    req.Age,
		Gender: entity.Gender(req.Gender),
	}

	if err := u.patientRepo.Create(db, patient); err != nil {
		if isDuplicateKeyError(err, constraintPatientPhone) {
			return nil, ErrPatientPhoneExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityPatientCreate, patient.Name, map[string]any{
		"patient_id": patient.ID.String(),
	})

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientDetailResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByIDWithHistory(db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointments, err := u.appointmentRepo.FindByPatientID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointments of patient %s: %+v", id, err)
		return nil, err
	}

	return converter.PatientToDetailResponse(patient, appointments), nil
}

func (u *patientUsecase) SearchPatients(ctx context.Context, query string, limit int) (*dto.PatientListResponse, error) {
	if limit <= 0 {
		limit = DefaultPatientSearchLimit
	}
	if limit > MaxPatientSearchLimit {
		limit = MaxPatientSearchLimit
	}

	patients, err := u.patientRepo.Search(u.db.WithContext(ctx), strings.TrimSpace(query), limit)
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

// UpdatePatient does not touch the names copied onto past appointments.
func (u *patientUsecase) UpdatePatient(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.findPatient(db, id)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != patient.Phone {
			existing, err := u.patientRepo.FindByPhone(db, phone)
			if err != nil {
				u.log.Warnf("Failed to check patient phone: %+v", err)
				return nil, err
			}
			if existing != nil {
				return nil, ErrPatientPhoneExists
			}
		}
		patient.Phone = phone
	}
	if req.Name != nil {
		patient.Name = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Gender != nil {
		patient.Gender = entity.Gender(*req.Gender)
	}

	if err := u.patientRepo.Update(db, patient); err != nil {
		if isDuplicateKeyError(err, constraintPatientPhone) {
			return nil, ErrPatientPhoneExists
		}
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityPatientUpdate, patient.Name, map[string]any{
		"patient_id": patient.ID.String(),
	})

	return converter.PatientToResponse(patient), nil
}

// DeletePatient removes the patient and their medical history. Appointments stay.
func (u *patientUsecase) DeletePatient(ctx context.Context, session *entity.Session, id uuid.UUID) error {
	db := u.db.WithContext(ctx)

	patient, err := u.findPatient(db, id)
	if err != nil {
		return err
	}

	rows, err := u.patientRepo.Delete(db, id)
	if err != nil {
		u.log.Warnf("Failed to delete patient %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrPatientNotFound
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityPatientDelete, patient.Name, map[string]any{
		"patient_id": id.String(),
	})
	return nil
}

// AddMedicalRecord appends a record authored by the current user, dated today.
func (u *patientUsecase) AddMedicalRecord(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.MedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.findPatient(db, id)
	if err != nil {
		return nil, err
	}

	record := &entity.MedicalRecord{
		PatientID: patient.ID,
		Date:      u.clock.Today(),
		Doctor:    session.Actor().Name,
		Diagnosis: req.Diagnosis,
		Notes:     entity.CombineNotes(req.Notes, req.TreatmentPlan, req.FollowUp),
	}
	if err := u.medicalRecordRepo.Create(db, record); err != nil {
		if isForeignKeyError(err, constraintRecordPatient) {
			return nil, ErrPatientNotFound
		}
		u.log.Warnf("Failed to add medical record for patient %s: %+v", id, err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityMedicalRecordAdd, patient.Name, map[string]any{
		"patient_id": patient.ID.String(),
		"diagnosis":  record.Diagnosis,
	})

	return converter.MedicalRecordToResponse(record), nil
}

func (u *patientUsecase) UploadAvatar(ctx context.Context, session *entity.Session, id uuid.UUID, upload *dto.AvatarUpload) (*dto.PatientResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.findPatient(db, id)
	if err != nil {
		return nil, err
	}

	url, err := u.avatars.Upload(ctx, "patients", patient.ID, upload.File, upload.Size, upload.ContentType)
	if err != nil {
		return nil, err
	}
	patient.Avatar = url

	if err := u.patientRepo.Update(db, patient); err != nil {
		u.log.Warnf("Failed to save avatar of patient %s: %+v", id, err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityPatientUpdate, patient.Name, map[string]any{
		"patient_id": patient.ID.String(),
		"avatar":     url,
	})

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) findPatient(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}
