// Package device provides device record storage and lookup operations.
package device

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/emontilla/taller/internal/models"
	"gorm.io/gorm"
)

// Store-level error kinds. Callers test with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
)

// CreateOpts holds intake parameters for a new device.
type CreateOpts struct {
	Type          string
	Brand         string
	Model         string
	SerialNumber  string
	Problem       string
	InitialStatus models.Status
	CustomerName  string
	CustomerPhone string
}

// Summary is the browsing view of a device.
type Summary struct {
	ID    uint
	Type  string
	Brand string
}

// Create inserts a new device from intake data and returns it with its
// store-assigned ID.
func Create(db *gorm.DB, opts CreateOpts) (*models.Device, error) {
	if strings.TrimSpace(opts.Type) == "" {
		return nil, fmt.Errorf("device: type is required: %w", ErrValidation)
	}
	status := opts.InitialStatus
	if status == "" {
		status = models.StatusReceived
	}
	if !status.Valid() {
		return nil, fmt.Errorf("device: unknown initial status %q: %w", status, ErrValidation)
	}

	dev := models.Device{
		Type:          opts.Type,
		Brand:         opts.Brand,
		Model:         opts.Model,
		SerialNumber:  opts.SerialNumber,
		Problem:       opts.Problem,
		Status:        status,
		CustomerName:  opts.CustomerName,
		CustomerPhone: opts.CustomerPhone,
	}
	if err := db.Create(&dev).Error; err != nil {
		return nil, fmt.Errorf("device: create: %w", err)
	}
	return &dev, nil
}

// Get retrieves a device by ID.
func Get(db *gorm.DB, id uint) (*models.Device, error) {
	var dev models.Device
	if err := db.Where("id = ?", id).First(&dev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("device: %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("device: get %d: %w", id, err)
	}
	return &dev, nil
}

// List returns ID/type/brand summaries for every device in insertion order.
func List(db *gorm.DB) ([]Summary, error) {
	var summaries []Summary
	err := db.Model(&models.Device{}).
		Select("id", "type", "brand").
		Order("id ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("device: list: %w", err)
	}
	return summaries, nil
}

// Search returns summaries whose stringified ID, type or brand contains the
// query, case-insensitively, in List order. An empty query matches every
// device.
func Search(db *gorm.DB, query string) ([]Summary, error) {
	all, err := List(db)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	matched := make([]Summary, 0, len(all))
	for _, s := range all {
		if q == "" ||
			strings.Contains(strconv.FormatUint(uint64(s.ID), 10), q) ||
			strings.Contains(strings.ToLower(s.Type), q) ||
			strings.Contains(strings.ToLower(s.Brand), q) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// UpdateStatus overwrites a device's status unconditionally. Transition
// legality is the workflow package's concern, not the store's.
func UpdateStatus(db *gorm.DB, id uint, status models.Status) error {
	return updateColumn(db, id, "status", string(status))
}

// UpdateNotes overwrites a device's repair notes.
func UpdateNotes(db *gorm.DB, id uint, notes string) error {
	return updateColumn(db, id, "notes", notes)
}

func updateColumn(db *gorm.DB, id uint, column string, value interface{}) error {
	res := db.Model(&models.Device{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("device: update %s for %d: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("device: %d: %w", id, ErrNotFound)
	}
	return nil
}
