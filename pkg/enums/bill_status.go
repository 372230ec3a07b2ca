package enums

import "fmt"

// BillStatus tracks whether a bill has been settled.
type BillStatus string

const (
	BillStatusPaid    BillStatus = "paid"
	BillStatusPending BillStatus = "pending"
	BillStatusVoid    BillStatus = "void"
)

var validBillStatuses = []BillStatus{
	BillStatusPaid,
	BillStatusPending,
	BillStatusVoid,
}

// String implements fmt.Stringer.
func (b BillStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BillStatus.
func (b BillStatus) IsValid() bool {
	for _, candidate := range validBillStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBillStatus converts raw input into a BillStatus.
func ParseBillStatus(value string) (BillStatus, error) {
	for _, candidate := range validBillStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bill status %q", value)
}
