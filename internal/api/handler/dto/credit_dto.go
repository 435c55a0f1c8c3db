package dto

import (
	"fmt"
	"time"

	"credit-application-system/internal/domain/credit"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const (
	minInstallments = 1
	maxInstallments = 48
)

type CreateCreditRequest struct {
	CreditValue          float64 `json:"creditValue"`
	DayFirstInstallment  string  `json:"dayFirstInstallment"`
	NumberOfInstallments int     `json:"numberOfInstallments"`
	CustomerID           int64   `json:"customerId"`
}

func (r *CreateCreditRequest) Validate() error {
	if decimal.NewFromFloat(r.CreditValue).LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("creditValue must be greater than zero")
	}
	if r.NumberOfInstallments < minInstallments || r.NumberOfInstallments > maxInstallments {
		return fmt.Errorf("numberOfInstallments must be between %d and %d", minInstallments, maxInstallments)
	}
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be positive")
	}
	if _, err := time.Parse(dateLayout, r.DayFirstInstallment); err != nil || r.DayFirstInstallment == "" {
		return fmt.Errorf("invalid dayFirstInstallment format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

func (r *CreateCreditRequest) ToEntity() *credit.Credit {
	day, _ := time.Parse(dateLayout, r.DayFirstInstallment)
	return credit.NewCredit(r.CreditValue, day, r.NumberOfInstallments, r.CustomerID)
}

type CreditResponse struct {
	CreditCode           string `json:"creditCode"`
	CreditValue          string `json:"creditValue"`
	DayFirstInstallment  string `json:"dayFirstInstallment"`
	NumberOfInstallments int    `json:"numberOfInstallments"`
	Status               string `json:"status"`
	CustomerID           int64  `json:"customerId"`
}

// CreditSummaryResponse is the list shape: enough to pick a credit out
// of a customer's applications without exposing the rest.
type CreditSummaryResponse struct {
	CreditCode           string `json:"creditCode"`
	CreditValue          string `json:"creditValue"`
	NumberOfInstallments int    `json:"numberOfInstallments"`
}

func NewCreditResponse(cred *credit.Credit) CreditResponse {
	return CreditResponse{
		CreditCode:           cred.CreditCode.String(),
		CreditValue:          decimal.NewFromFloat(cred.CreditValue).StringFixed(2),
		DayFirstInstallment:  cred.DayFirstInstallment.Format(dateLayout),
		NumberOfInstallments: cred.NumberOfInstallments,
		Status:               string(cred.Status),
		CustomerID:           cred.CustomerID,
	}
}

func NewCreditSummaryResponse(cred *credit.Credit) CreditSummaryResponse {
	return CreditSummaryResponse{
		CreditCode:           cred.CreditCode.String(),
		CreditValue:          decimal.NewFromFloat(cred.CreditValue).StringFixed(2),
		NumberOfInstallments: cred.NumberOfInstallments,
	}
}

type TokenRequest struct {
	Username string `json:"username"`
}
