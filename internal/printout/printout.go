// Package printout assembles plain-text documents from device snapshots.
// Every function is a pure function of its inputs; rendering and delivery
// (printers, files) belong to the caller.
package printout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emontilla/taller/internal/models"
)

// ErrMissingData reports a document prerequisite absent from the snapshot.
var ErrMissingData = errors.New("missing data")

// Shop identifies the business on printed documents. A zero Shop omits the
// letterhead.
type Shop struct {
	Name  string
	Phone string
}

// IntakeOrder renders the reception order handed to the customer at intake.
func IntakeOrder(shop Shop, dev models.Device) (string, error) {
	if strings.TrimSpace(dev.CustomerName) == "" {
		return "", fmt.Errorf("printout: intake order for device %d: customer name: %w", dev.ID, ErrMissingData)
	}
	var b strings.Builder
	writeHeader(&b, shop, "INTAKE ORDER")
	fmt.Fprintf(&b, "ID: %d\n", dev.ID)
	fmt.Fprintf(&b, "Customer: %s\n", dev.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", dev.CustomerPhone)
	fmt.Fprintf(&b, "Device: %s\n", deviceLine(dev))
	fmt.Fprintf(&b, "Problem: %s\n", dev.Problem)
	return b.String(), nil
}

// Label renders the identification label attached to the device. Labels
// carry no letterhead.
func Label(dev models.Device) (string, error) {
	if strings.TrimSpace(dev.Type) == "" {
		return "", fmt.Errorf("printout: label for device %d: type: %w", dev.ID, ErrMissingData)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", dev.ID)
	fmt.Fprintf(&b, "%s %s\n", dev.Type, dev.Brand)
	fmt.Fprintf(&b, "%s\n", dev.Model)
	return b.String(), nil
}

// Invoice renders the final bill. It requires a diagnosis: there is no
// amount to bill without one.
func Invoice(shop Shop, dev models.Device, diag *models.Diagnosis) (string, error) {
	if diag == nil {
		return "", fmt.Errorf("printout: invoice for device %d: diagnosis: %w", dev.ID, ErrMissingData)
	}
	var b strings.Builder
	writeHeader(&b, shop, "INVOICE")
	fmt.Fprintf(&b, "Customer: %s\n", dev.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", dev.CustomerPhone)
	fmt.Fprintf(&b, "Device: %s\n", deviceLine(dev))
	fmt.Fprintf(&b, "Diagnosis: %s\n", diag.DiagnosisText)
	if dev.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", dev.Notes)
	}
	fmt.Fprintf(&b, "Value: $%.2f\n", diag.Value)
	return b.String(), nil
}

// writeHeader writes the shop letterhead (when configured) and the document
// title with an underline.
func writeHeader(b *strings.Builder, shop Shop, title string) {
	if shop.Name != "" {
		fmt.Fprintf(b, "%s\n", shop.Name)
		if shop.Phone != "" {
			fmt.Fprintf(b, "Tel: %s\n", shop.Phone)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// deviceLine formats the type/brand/model triple, dropping empty fields.
func deviceLine(dev models.Device) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{dev.Type, dev.Brand, dev.Model} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
