package credit

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("credit not found")

	ErrDuplicateCreditCode = errors.New("credit code already exists")
)

type Repository interface {
	Save(ctx context.Context, credit *Credit) error

	FindAllByCustomerID(ctx context.Context, customerID int64) ([]*Credit, error)

	FindByCreditCode(ctx context.Context, creditCode uuid.UUID) (*Credit, error)

	CountByStatus(ctx context.Context) (map[CreditStatus]int64, error)
}
