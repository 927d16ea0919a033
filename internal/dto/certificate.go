package dto

// CertificateRequest is the raw submission payload for creating or
// replacing a record. The struct itself is the 8-field allow-list:
// unknown fields in the JSON body are dropped silently by binding.
// Age is loosely typed because clients submit it as either a number or
// a string; the sanitizer settles it into an integer or null.
type CertificateRequest struct {
	ParticipantName string      `json:"participant_name"`
	TrainingType    string      `json:"training_type"`
	TrainingDate    string      `json:"training_date"`
	Venue           string      `json:"venue"`
	Facility        string      `json:"facility"`
	Position        string      `json:"position"`
	ParticipantType string      `json:"participant_type"`
	Age             interface{} `json:"age"`
}
