package models

// Batch is a derived, request-scoped grouping of certificate records
// sharing a training date and training type. It is recomputed from the
// record collection on every read and never persisted.
type Batch struct {
	Key                 string              `json:"key"`
	DisplayDate         string              `json:"display_date"`
	DisplayTrainingType string              `json:"display_training_type"`
	Records             []CertificateRecord `json:"records"`
}
