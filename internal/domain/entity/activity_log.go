package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityActor is the staff member (or public booker) who performed an action.
type ActivityActor struct {
	UserID string `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// ActivityLog is a feed entry stored in the activity_logs collection.
type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      ActivityActor      `bson:"user" json:"user"`
	Action    string             `bson:"action" json:"action"`
	Target    string             `bson:"target" json:"target"`
	Metadata  map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Activity actions
const (
	ActivityPatientCreate      = "patient.create"
	ActivityPatientUpdate      = "patient.update"
	ActivityPatientDelete      = "patient.delete"
	ActivityDoctorCreate       = "doctor.create"
	ActivityDoctorUpdate       = "doctor.update"
	ActivityDoctorDelete       = "doctor.delete"
	ActivityAppointmentBook    = "appointment.book"
	ActivityAppointmentUpdate  = "appointment.update"
	ActivityAppointmentCancel  = "appointment.cancel"
	ActivityAppointmentStatus  = "appointment.status"
	ActivitySessionStart       = "session.start"
	ActivitySessionEnd         = "session.end"
	ActivityMedicalRecordAdd   = "medical_record.add"
	ActivityUserCreate         = "user.create"
	ActivityUserUpdate         = "user.update"
	ActivityUserDelete         = "user.delete"
	ActivityPermissionsUpdate  = "user.permissions"
	ActivityUserPasswordChange = "user.password"
)
