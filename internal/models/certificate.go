package models

import "time"

// TrainingType enumerates the courses a certificate can be issued for.
type TrainingType string

const (
	TrainingBLS    TrainingType = "BLS"
	TrainingBLSSFA TrainingType = "BLS+SFA"
	TrainingBLSToT TrainingType = "BLS-ToT"
	TrainingSFAToT TrainingType = "SFA-ToT"
)

// TrainingTypes lists every recognized training type.
var TrainingTypes = []TrainingType{TrainingBLS, TrainingBLSSFA, TrainingBLSToT, TrainingSFAToT}

// Valid reports whether the value is one of the recognized training types.
func (t TrainingType) Valid() bool {
	for _, known := range TrainingTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParticipantType classifies trainees for registration numbering.
type ParticipantType string

const (
	ParticipantLayRescuer         ParticipantType = "Lay Rescuer"
	ParticipantHealthcareProvider ParticipantType = "Healthcare Provider"
)

// ParticipantTypes lists every recognized participant type.
var ParticipantTypes = []ParticipantType{ParticipantLayRescuer, ParticipantHealthcareProvider}

// Valid reports whether the value is one of the recognized participant types.
func (p ParticipantType) Valid() bool {
	for _, known := range ParticipantTypes {
		if p == known {
			return true
		}
	}
	return false
}

// CertificateRecord is a trainee record stored in the certificates table.
// Enumerated fields are either a listed value or null, never an invalid
// string; training_date is free text, often a human date range.
type CertificateRecord struct {
	ID              int64     `db:"id" json:"id"`
	ParticipantName string    `db:"participant_name" json:"participant_name"`
	TrainingType    *string   `db:"training_type" json:"training_type"`
	TrainingDate    *string   `db:"training_date" json:"training_date"`
	Venue           *string   `db:"venue" json:"venue"`
	Facility        *string   `db:"facility" json:"facility"`
	Position        *string   `db:"position" json:"position"`
	ParticipantType *string   `db:"participant_type" json:"participant_type"`
	Age             *int      `db:"age" json:"age"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
