package credit

import (
	"time"

	"github.com/google/uuid"
)

type CreditStatus string

const (
	StatusInProgress CreditStatus = "IN_PROGRESS"
	StatusApproved   CreditStatus = "APPROVED"
	StatusReject     CreditStatus = "REJECT"
)

// Credit is a credit application. CreditCode is the external-facing
// identifier; ID never leaves the service.
type Credit struct {
	ID                   int64
	CreditCode           uuid.UUID
	CreditValue          float64
	DayFirstInstallment  time.Time
	NumberOfInstallments int
	Status               CreditStatus
	CustomerID           int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func NewCredit(creditValue float64, dayFirstInstallment time.Time, numberOfInstallments int, customerID int64) *Credit {
	return &Credit{
		CreditValue:          creditValue,
		DayFirstInstallment:  dayFirstInstallment,
		NumberOfInstallments: numberOfInstallments,
		Status:               StatusInProgress,
		CustomerID:           customerID,
	}
}
