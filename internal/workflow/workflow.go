// Package workflow encodes the repair lifecycle and validates stage
// transitions. All status writes go through this package; the store itself
// never checks transition legality.
package workflow

import (
	"errors"
	"fmt"

	"github.com/emontilla/taller/internal/device"
	"github.com/emontilla/taller/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidTransition reports a move the workflow graph does not allow.
var ErrInvalidTransition = errors.New("invalid transition")

// ValidTransitions maps each status to its valid next statuses. Delivered
// and Invoiced have no outgoing edges.
var ValidTransitions = map[models.Status][]models.Status{
	models.StatusReceived:  {models.StatusDiagnosed},
	models.StatusDiagnosed: {models.StatusReviewed, models.StatusApproved, models.StatusInRepair},
	models.StatusReviewed:  {models.StatusReady},
	models.StatusApproved:  {models.StatusReady},
	models.StatusInRepair:  {models.StatusReady},
	models.StatusReady:     {models.StatusDelivered, models.StatusInvoiced},
}

// Advance moves a device to target if the graph allows it. Advancing to the
// status the device already has is a no-op success, so repeated calls are
// idempotent.
func Advance(db *gorm.DB, id uint, target models.Status) error {
	dev, err := device.Get(db, id)
	if err != nil {
		return err
	}
	if !target.Valid() {
		return fmt.Errorf("workflow: unknown status %q: %w", target, ErrInvalidTransition)
	}
	if dev.Status == target {
		return nil
	}
	if !isValidTransition(dev.Status, target) {
		return fmt.Errorf("workflow: %q to %q: %w", dev.Status, target, ErrInvalidTransition)
	}
	return device.UpdateStatus(db, id, target)
}

// isValidTransition checks whether a status transition is allowed.
func isValidTransition(from, to models.Status) bool {
	for _, next := range ValidTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RecordDiagnosis stores an assessment and price quote for a device, then
// moves it to Diagnosed unless it is already at or past that stage.
func RecordDiagnosis(db *gorm.DB, id uint, text string, value float64) (*models.Diagnosis, error) {
	dev, err := device.Get(db, id)
	if err != nil {
		return nil, err
	}
	if value < 0 {
		return nil, fmt.Errorf("workflow: diagnosis value %v is negative: %w", value, device.ErrValidation)
	}
	diag, err := device.AddDiagnosis(db, id, text, value)
	if err != nil {
		return nil, err
	}
	if dev.Status.Rank() < models.StatusDiagnosed.Rank() {
		if err := device.UpdateStatus(db, id, models.StatusDiagnosed); err != nil {
			return nil, err
		}
	}
	return diag, nil
}

// MarkReady records final repair notes and moves the device to Ready. The
// device must be in one of the customer-approval substates.
func MarkReady(db *gorm.DB, id uint, notes string) error {
	dev, err := device.Get(db, id)
	if err != nil {
		return err
	}
	if !dev.Status.ApprovalSubstate() {
		return fmt.Errorf("workflow: mark ready from %q: %w", dev.Status, ErrInvalidTransition)
	}
	if err := device.UpdateNotes(db, id, notes); err != nil {
		return err
	}
	return device.UpdateStatus(db, id, models.StatusReady)
}

// Finalize hands a repaired device back to the customer.
func Finalize(db *gorm.DB, id uint) error {
	return finalizeTo(db, id, models.StatusDelivered)
}

// FinalizeInvoiced closes a repaired device as billed rather than picked up.
func FinalizeInvoiced(db *gorm.DB, id uint) error {
	return finalizeTo(db, id, models.StatusInvoiced)
}

func finalizeTo(db *gorm.DB, id uint, terminal models.Status) error {
	dev, err := device.Get(db, id)
	if err != nil {
		return err
	}
	if dev.Status != models.StatusReady {
		return fmt.Errorf("workflow: finalize from %q: %w", dev.Status, ErrInvalidTransition)
	}
	return device.UpdateStatus(db, id, terminal)
}
