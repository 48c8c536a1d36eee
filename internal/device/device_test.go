package device

import (
	"errors"
	"reflect"
	"testing"

	"github.com/emontilla/taller/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates an in-memory SQLite database with all required tables.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Device{}, &models.Diagnosis{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func intakeLaptop(t *testing.T, db *gorm.DB) *models.Device {
	t.Helper()
	dev, err := Create(db, CreateOpts{
		Type:          "laptop",
		Brand:         "Acme",
		Model:         "X200",
		SerialNumber:  "SN-0042",
		Problem:       "does not power on",
		CustomerName:  "Ana Gómez",
		CustomerPhone: "555-0199",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return dev
}

func TestCreate_AssignsFreshIDs(t *testing.T) {
	db := testDB(t)
	seen := make(map[uint]bool)
	for i := 0; i < 5; i++ {
		dev := intakeLaptop(t, db)
		if dev.ID == 0 {
			t.Fatal("Create() returned zero ID")
		}
		if seen[dev.ID] {
			t.Fatalf("Create() reused ID %d", dev.ID)
		}
		seen[dev.ID] = true
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	db := testDB(t)
	dev := intakeLaptop(t, db)

	got, err := Get(db, dev.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Type != "laptop" || got.Brand != "Acme" || got.Model != "X200" {
		t.Errorf("device fields = %s/%s/%s", got.Type, got.Brand, got.Model)
	}
	if got.SerialNumber != "SN-0042" || got.Problem != "does not power on" {
		t.Errorf("serial/problem = %q/%q", got.SerialNumber, got.Problem)
	}
	if got.CustomerName != "Ana Gómez" || got.CustomerPhone != "555-0199" {
		t.Errorf("customer = %q/%q", got.CustomerName, got.CustomerPhone)
	}
	if got.Status != models.StatusReceived {
		t.Errorf("initial status = %q, want %q", got.Status, models.StatusReceived)
	}
}

func TestCreate_EmptyType(t *testing.T) {
	db := testDB(t)
	_, err := Create(db, CreateOpts{CustomerName: "Ana"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() error = %v, want ErrValidation", err)
	}
}

func TestCreate_CallerSuppliedStatus(t *testing.T) {
	db := testDB(t)
	dev, err := Create(db, CreateOpts{Type: "radio", InitialStatus: models.StatusReceived})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if dev.Status != models.StatusReceived {
		t.Errorf("status = %q", dev.Status)
	}

	_, err = Create(db, CreateOpts{Type: "radio", InitialStatus: models.Status("broken")})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() with bogus status error = %v, want ErrValidation", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := Get(db, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestList_InsertionOrder(t *testing.T) {
	db := testDB(t)
	for _, opts := range []CreateOpts{
		{Type: "laptop", Brand: "Acme"},
		{Type: "tv", Brand: "Visio"},
		{Type: "phone", Brand: "Acme"},
	} {
		if _, err := Create(db, opts); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	list, err := List(db)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d rows, want 3", len(list))
	}
	for i, wantType := range []string{"laptop", "tv", "phone"} {
		if list[i].Type != wantType {
			t.Errorf("List()[%d].Type = %q, want %q", i, list[i].Type, wantType)
		}
	}

	// Repeated calls return the current full set.
	again, err := List(db)
	if err != nil {
		t.Fatalf("List() second call error: %v", err)
	}
	if !reflect.DeepEqual(list, again) {
		t.Error("repeated List() calls disagree")
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	for _, opts := range []CreateOpts{
		{Type: "laptop", Brand: "Acme"},
		{Type: "tv", Brand: "Visio"},
		{Type: "phone", Brand: "acmePlus"},
	} {
		if _, err := Create(db, opts); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"acme", 2}, // case-insensitive brand match
		{"LAPTOP", 1},
		{"1", 1}, // matches stringified id
		{"visio", 1},
		{"xyz", 0},
	}
	for _, tt := range tests {
		got, err := Search(db, tt.query)
		if err != nil {
			t.Fatalf("Search(%q) error: %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q) returned %d rows, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestSearch_EmptyQueryMatchesList(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 4; i++ {
		intakeLaptop(t, db)
	}

	list, err := List(db)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	found, err := Search(db, "")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if !reflect.DeepEqual(list, found) {
		t.Errorf("Search(\"\") = %v, want List() result %v", found, list)
	}
}

func TestUpdateStatus(t *testing.T) {
	db := testDB(t)
	dev := intakeLaptop(t, db)

	if err := UpdateStatus(db, dev.ID, models.StatusDiagnosed); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	got, err := Get(db, dev.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != models.StatusDiagnosed {
		t.Errorf("status = %q, want Diagnosed", got.Status)
	}

	if err := UpdateStatus(db, 999, models.StatusDiagnosed); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus(absent) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateNotes(t *testing.T) {
	db := testDB(t)
	dev := intakeLaptop(t, db)

	if err := UpdateNotes(db, dev.ID, "replaced fan"); err != nil {
		t.Fatalf("UpdateNotes() error: %v", err)
	}
	got, err := Get(db, dev.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Notes != "replaced fan" {
		t.Errorf("notes = %q", got.Notes)
	}

	if err := UpdateNotes(db, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateNotes(absent) error = %v, want ErrNotFound", err)
	}
}

func TestDiagnosis_LatestWins(t *testing.T) {
	db := testDB(t)
	dev := intakeLaptop(t, db)

	if _, err := AddDiagnosis(db, dev.ID, "bad battery", 45.00); err != nil {
		t.Fatalf("AddDiagnosis() error: %v", err)
	}
	if _, err := AddDiagnosis(db, dev.ID, "bad battery and charger", 60.00); err != nil {
		t.Fatalf("AddDiagnosis() second error: %v", err)
	}

	diag, err := LatestDiagnosis(db, dev.ID)
	if err != nil {
		t.Fatalf("LatestDiagnosis() error: %v", err)
	}
	if diag.DiagnosisText != "bad battery and charger" || diag.Value != 60.00 {
		t.Errorf("latest diagnosis = %q/$%.2f, want the re-diagnosis", diag.DiagnosisText, diag.Value)
	}
}

func TestLatestDiagnosis_NotFound(t *testing.T) {
	db := testDB(t)
	dev := intakeLaptop(t, db)
	if _, err := LatestDiagnosis(db, dev.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestDiagnosis() error = %v, want ErrNotFound", err)
	}
}

func TestAddDiagnosis_AdvisoryReference(t *testing.T) {
	db := testDB(t)
	// The store does not verify the device exists.
	if _, err := AddDiagnosis(db, 12345, "orphan", 10); err != nil {
		t.Errorf("AddDiagnosis() for absent device error = %v, want nil", err)
	}
}
