package dto

// UpdateSettingsRequest carries the whole settings object as submitted:
// a flat key/value mapping validated against the recognized keys.
type UpdateSettingsRequest map[string]string
