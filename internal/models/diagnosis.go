package models

import "time"

// Diagnosis is the assessment and price quote for a device's repair.
// A device accumulates one row per diagnosis; the device reference is
// advisory and never cascade-deleted.
type Diagnosis struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	DeviceID      uint   `gorm:"index"`
	DiagnosisText string `gorm:"type:text"`
	Value         float64
	CreatedAt     time.Time
}
