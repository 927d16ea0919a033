package models

import "time"

// Recognized settings keys. Three signing-officer name/position pairs
// plus one base64 signature image. Nothing else is ever persisted.
const (
	SettingOff1Name     = "off1_name"
	SettingOff1Position = "off1_position"
	SettingOff2Name     = "off2_name"
	SettingOff2Position = "off2_position"
	SettingOff3Name     = "off3_name"
	SettingOff3Position = "off3_position"
	SettingOffSignature = "off_signature"
)

// SettingKeys lists the recognized keys in storage order.
var SettingKeys = []string{
	SettingOff1Name,
	SettingOff1Position,
	SettingOff2Name,
	SettingOff2Position,
	SettingOff3Name,
	SettingOff3Position,
	SettingOffSignature,
}

// SettingRow is a persisted settings entry.
type SettingRow struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OfficerSettings is the typed view of the settings table: exactly the
// recognized fields, populated from rows and flattened back into rows.
type OfficerSettings struct {
	Off1Name     string `json:"off1_name"`
	Off1Position string `json:"off1_position"`
	Off2Name     string `json:"off2_name"`
	Off2Position string `json:"off2_position"`
	Off3Name     string `json:"off3_name"`
	Off3Position string `json:"off3_position"`
	OffSignature string `json:"off_signature"`
}

// Set assigns a value by key, reporting whether the key is recognized.
func (s *OfficerSettings) Set(key, value string) bool {
	switch key {
	case SettingOff1Name:
		s.Off1Name = value
	case SettingOff1Position:
		s.Off1Position = value
	case SettingOff2Name:
		s.Off2Name = value
	case SettingOff2Position:
		s.Off2Position = value
	case SettingOff3Name:
		s.Off3Name = value
	case SettingOff3Position:
		s.Off3Position = value
	case SettingOffSignature:
		s.OffSignature = value
	default:
		return false
	}
	return true
}

// Get returns a value by key, reporting whether the key is recognized.
func (s OfficerSettings) Get(key string) (string, bool) {
	switch key {
	case SettingOff1Name:
		return s.Off1Name, true
	case SettingOff1Position:
		return s.Off1Position, true
	case SettingOff2Name:
		return s.Off2Name, true
	case SettingOff2Position:
		return s.Off2Position, true
	case SettingOff3Name:
		return s.Off3Name, true
	case SettingOff3Position:
		return s.Off3Position, true
	case SettingOffSignature:
		return s.OffSignature, true
	default:
		return "", false
	}
}

// FromRows builds the typed settings from persisted rows, skipping any
// row whose key is not recognized.
func (s *OfficerSettings) FromRows(rows []SettingRow) {
	for _, row := range rows {
		s.Set(row.Key, row.Value)
	}
}

// Rows flattens the typed settings back into persistable rows.
func (s OfficerSettings) Rows() []SettingRow {
	rows := make([]SettingRow, 0, len(SettingKeys))
	for _, key := range SettingKeys {
		value, _ := s.Get(key)
		rows = append(rows, SettingRow{Key: key, Value: value})
	}
	return rows
}
