package models

import (
	"fmt"
	"strings"
)

// Status is a device's position in the fixed repair workflow. Status is a
// closed set: values outside the constants below never reach the store.
type Status string

// Workflow statuses in lifecycle order. Reviewed, Approved and InRepair are
// the customer-approval substates; Delivered and Invoiced are terminal.
const (
	StatusReceived  Status = "Received"
	StatusDiagnosed Status = "Diagnosed"
	StatusReviewed  Status = "Reviewed"
	StatusApproved  Status = "Approved"
	StatusInRepair  Status = "InRepair"
	StatusReady     Status = "Ready"
	StatusDelivered Status = "Delivered"
	StatusInvoiced  Status = "Invoiced"
)

// statusRanks orders statuses along the workflow. The approval substates
// share a rank: none of them is further along than another.
var statusRanks = map[Status]int{
	StatusReceived:  0,
	StatusDiagnosed: 1,
	StatusReviewed:  2,
	StatusApproved:  2,
	StatusInRepair:  2,
	StatusReady:     3,
	StatusDelivered: 4,
	StatusInvoiced:  4,
}

// Valid reports whether s is one of the workflow statuses.
func (s Status) Valid() bool {
	_, ok := statusRanks[s]
	return ok
}

// Rank returns the status's position along the workflow, or -1 for an
// unknown status.
func (s Status) Rank() int {
	r, ok := statusRanks[s]
	if !ok {
		return -1
	}
	return r
}

// ApprovalSubstate reports whether s is one of the customer-approval states.
func (s Status) ApprovalSubstate() bool {
	return s == StatusReviewed || s == StatusApproved || s == StatusInRepair
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusInvoiced
}

// ParseStatus converts user input into a Status. Matching ignores case and
// separators, so "in_repair" and "InRepair" both parse.
func ParseStatus(input string) (Status, error) {
	key := strings.ToLower(input)
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	for s := range statusRanks {
		if key == strings.ToLower(string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("models: unknown status %q", input)
}
