package models

import "time"

// Device is one physical item received for repair.
type Device struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Type          string `gorm:"size:64;not null"`
	Brand         string `gorm:"size:64"`
	Model         string `gorm:"size:64"`
	SerialNumber  string `gorm:"size:64"`
	Problem       string `gorm:"type:text"`
	Status        Status `gorm:"size:16;default:Received;index"`
	CustomerName  string `gorm:"size:128"`
	CustomerPhone string `gorm:"size:32"`
	Notes         string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Diagnoses []Diagnosis `gorm:"foreignKey:DeviceID"`
}
