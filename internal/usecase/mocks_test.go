package usecase

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testDB is a gorm handle that never reaches PostgreSQL. Repositories are mocked, so
// only transaction boundaries go through the pool, which counts them.
func testDB(t *testing.T) (*gorm.DB, *txCounter) {
	t.Helper()
	pool := &txCounter{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pool}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, pool
}

var errNoDatabase = errors.New("no database in unit tests")

type txCounter struct {
	mu        sync.Mutex
	begun     int
	committed int
}

func (p *txCounter) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errNoDatabase
}

func (p *txCounter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, errNoDatabase
}

func (p *txCounter) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errNoDatabase
}

func (p *txCounter) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (p *txCounter) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begun++
	return &countedTx{txCounter: p}, nil
}

func (p *txCounter) commits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed
}

type countedTx struct {
	*txCounter
	done bool
}

func (tx *countedTx) Commit() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	tx.committed++
	return nil
}

func (tx *countedTx) Rollback() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	return nil
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type mockAppointmentRepository struct {
	mock.Mock
}

func (m *mockAppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(db, appointment).Error(0)
}

func (m *mockAppointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(db, id)
	appt, _ := args.Get(0).(*entity.Appointment)
	return appt, args.Error(1)
}

func (m *mockAppointmentRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(db, id)
	appt, _ := args.Get(0).(*entity.Appointment)
	return appt, args.Error(1)
}

func (m *mockAppointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(db, filter)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) ([]entity.Appointment, error) {
	args := m.Called(db, doctorID, date)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(db, patientID)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepository) FindOccupying(db *gorm.DB, fromDate string, includeCancelled bool, offset, limit int) ([]entity.Appointment, error) {
	args := m.Called(db, fromDate, includeCancelled, offset, limit)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(db, appointment).Error(0)
}

func (m *mockAppointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus) (int64, error) {
	args := m.Called(db, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepository) Complete(db *gorm.DB, id uuid.UUID, cost decimal.Decimal) (int64, error) {
	args := m.Called(db, id, cost)
	return args.Get(0).(int64), args.Error(1)
}

type mockDoctorRepository struct {
	mock.Mock
}

func (m *mockDoctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return m.Called(db, doctor).Error(0)
}

func (m *mockDoctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	args := m.Called(db, id)
	doctor, _ := args.Get(0).(*entity.Doctor)
	return doctor, args.Error(1)
}

func (m *mockDoctorRepository) FindByName(db *gorm.DB, name string) (*entity.Doctor, error) {
	args := m.Called(db, name)
	doctor, _ := args.Get(0).(*entity.Doctor)
	return doctor, args.Error(1)
}

func (m *mockDoctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	args := m.Called(db)
	doctors, _ := args.Get(0).([]entity.Doctor)
	return doctors, args.Error(1)
}

func (m *mockDoctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return m.Called(db, doctor).Error(0)
}

func (m *mockDoctorRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockPatientRepository struct {
	mock.Mock
}

func (m *mockPatientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return m.Called(db, patient).Error(0)
}

func (m *mockPatientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	args := m.Called(db, id)
	patient, _ := args.Get(0).(*entity.Patient)
	return patient, args.Error(1)
}

func (m *mockPatientRepository) FindByIDWithHistory(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	args := m.Called(db, id)
	patient, _ := args.Get(0).(*entity.Patient)
	return patient, args.Error(1)
}

func (m *mockPatientRepository) FindByPhone(db *gorm.DB, phone string) (*entity.Patient, error) {
	args := m.Called(db, phone)
	patient, _ := args.Get(0).(*entity.Patient)
	return patient, args.Error(1)
}

func (m *mockPatientRepository) Search(db *gorm.DB, query string, limit int) ([]entity.Patient, error) {
	args := m.Called(db, query, limit)
	patients, _ := args.Get(0).([]entity.Patient)
	return patients, args.Error(1)
}

func (m *mockPatientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return m.Called(db, patient).Error(0)
}

func (m *mockPatientRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockMedicalRecordRepository struct {
	mock.Mock
}

func (m *mockMedicalRecordRepository) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	return m.Called(db, record).Error(0)
}

func (m *mockMedicalRecordRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalRecord, error) {
	args := m.Called(db, patientID)
	records, _ := args.Get(0).([]entity.MedicalRecord)
	return records, args.Error(1)
}

func (m *mockMedicalRecordRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.MedicalRecord, error) {
	args := m.Called(db, appointmentID)
	record, _ := args.Get(0).(*entity.MedicalRecord)
	return record, args.Error(1)
}

func (m *mockMedicalRecordRepository) CountByPatientID(db *gorm.DB, patientID uuid.UUID) (int64, error) {
	args := m.Called(db, patientID)
	return args.Get(0).(int64), args.Error(1)
}

type mockSlotReserver struct {
	mock.Mock
}

func (m *mockSlotReserver) Reserve(ctx context.Context, appt *entity.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}

func (m *mockSlotReserver) Release(ctx context.Context, appt *entity.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}

// activityRecorder keeps the actions written to the feed.
type activityRecorder struct {
	mu      sync.Mutex
	actions []string
}

func (r *activityRecorder) Record(ctx context.Context, actor entity.ActivityActor, action string, target string, metadata map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func (r *activityRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.actions...)
}

// memoryNotifier behaves like Redis pub/sub: a publish reaches only the subscriptions
// that exist at that moment.
type memoryNotifier struct {
	mu           sync.Mutex
	subs         map[string]map[int]chan struct{}
	next         int
	published    []string
	subscribeErr error
}

func newMemoryNotifier() *memoryNotifier {
	return &memoryNotifier{subs: make(map[string]map[int]chan struct{})}
}

func (n *memoryNotifier) Publish(ctx context.Context, date string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, date)
	for _, ch := range n.subs[date] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (n *memoryNotifier) Subscribe(ctx context.Context, date string) (<-chan struct{}, func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subscribeErr != nil {
		return nil, nil, n.subscribeErr
	}

	id := n.next
	n.next++
	ch := make(chan struct{}, 1)
	if n.subs[date] == nil {
		n.subs[date] = make(map[int]chan struct{})
	}
	n.subs[date][id] = ch

	var once sync.Once
	stop := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[date], id)
		})
	}
	return ch, stop, nil
}

func (n *memoryNotifier) subscribers(date string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[date])
}

func (n *memoryNotifier) publishedDates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.published...)
}

func staffSession() *entity.Session {
	return &entity.Session{UserID: uuid.New(), Name: "Reception", Role: entity.RoleReceptionist}
}
