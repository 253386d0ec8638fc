package revenue

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// Claim is an employee's claim on the revenue of a paid transaction.
type Claim struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	TransactionID string
	Status        ClaimStatus
	ClaimAmount   decimal.Decimal
	PaymentDate   *time.Time
	CreatedAt     time.Time
}
