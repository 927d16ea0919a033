package models

import (
	"encoding/json"
	"time"
)

// Draft holds a user's in-progress multi-row form entry. It is a local
// persistence boundary distinct from the certificate store: loaded on
// start, saved on change, cleared explicitly.
type Draft struct {
	UserID    int64           `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
