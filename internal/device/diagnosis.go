package device

import (
	"errors"
	"fmt"

	"github.com/emontilla/taller/internal/models"
	"gorm.io/gorm"
)

// AddDiagnosis inserts a diagnosis row for a device. The device reference is
// advisory: no existence check happens here, callers resolve the device
// first.
func AddDiagnosis(db *gorm.DB, deviceID uint, text string, value float64) (*models.Diagnosis, error) {
	diag := models.Diagnosis{
		DeviceID:      deviceID,
		DiagnosisText: text,
		Value:         value,
	}
	if err := db.Create(&diag).Error; err != nil {
		return nil, fmt.Errorf("device: add diagnosis for %d: %w", deviceID, err)
	}
	return &diag, nil
}

// LatestDiagnosis returns the most recent diagnosis recorded for a device.
// Re-diagnosis inserts a new row rather than updating, so the newest row
// wins on read.
func LatestDiagnosis(db *gorm.DB, deviceID uint) (*models.Diagnosis, error) {
	var diag models.Diagnosis
	err := db.Where("device_id = ?", deviceID).Order("id DESC").First(&diag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("device: diagnosis for %d: %w", deviceID, ErrNotFound)
		}
		return nil, fmt.Errorf("device: get diagnosis for %d: %w", deviceID, err)
	}
	return &diag, nil
}
