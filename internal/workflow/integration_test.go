package workflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/emontilla/taller/internal/device"
	"github.com/emontilla/taller/internal/models"
	"github.com/emontilla/taller/internal/printout"
)

// TestFullLifecycle walks a device through every stage, intake to invoice.
func TestFullLifecycle(t *testing.T) {
	db := testDB(t)

	dev, err := device.Create(db, device.CreateOpts{
		Type:          "laptop",
		Brand:         "Acme",
		Model:         "X200",
		Problem:       "does not hold charge",
		CustomerName:  "Ana Gómez",
		CustomerPhone: "555-0199",
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	if dev.ID != 1 {
		t.Errorf("first device ID = %d, want 1", dev.ID)
	}
	if dev.Status != models.StatusReceived {
		t.Errorf("intake status = %q, want Received", dev.Status)
	}

	if _, err := RecordDiagnosis(db, dev.ID, "bad battery", 45.00); err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if got := statusOf(t, db, dev.ID); got != models.StatusDiagnosed {
		t.Fatalf("status after diagnosis = %q, want Diagnosed", got)
	}

	if err := Advance(db, dev.ID, models.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := MarkReady(db, dev.ID, "cleaned"); err != nil {
		t.Fatalf("mark ready: %v", err)
	}
	if got := statusOf(t, db, dev.ID); got != models.StatusReady {
		t.Fatalf("status after repair = %q, want Ready", got)
	}
	if err := Finalize(db, dev.ID); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if got := statusOf(t, db, dev.ID); got != models.StatusDelivered {
		t.Fatalf("final status = %q, want Delivered", got)
	}

	final, err := device.Get(db, dev.ID)
	if err != nil {
		t.Fatalf("get device: %v", err)
	}
	diag, err := device.LatestDiagnosis(db, dev.ID)
	if err != nil {
		t.Fatalf("get diagnosis: %v", err)
	}
	invoice, err := printout.Invoice(printout.Shop{}, *final, diag)
	if err != nil {
		t.Fatalf("render invoice: %v", err)
	}
	if !strings.Contains(invoice, "45") {
		t.Errorf("invoice missing the quoted value:\n%s", invoice)
	}
	if !strings.Contains(invoice, "bad battery") {
		t.Errorf("invoice missing the diagnosis text:\n%s", invoice)
	}
}

// TestNoStageSkipping rejects jumping straight from intake to delivery.
func TestNoStageSkipping(t *testing.T) {
	db := testDB(t)
	dev := deviceAt(t, db, models.StatusReceived)

	err := Advance(db, dev.ID, models.StatusDelivered)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Advance(Received → Delivered) error = %v, want ErrInvalidTransition", err)
	}
	if got := statusOf(t, db, dev.ID); got != models.StatusReceived {
		t.Errorf("status = %q after rejected advance, want Received", got)
	}
}
