package model

import "time"

// Setting is a free-form key/value pair. The shop logo is stored here as a
// base64 data URL under the "logo" key.
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}
