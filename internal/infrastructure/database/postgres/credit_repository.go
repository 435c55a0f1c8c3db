package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"credit-application-system/internal/domain/credit"
	"credit-application-system/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ credit.Repository = (*CreditRepository)(nil)

func NewCreditRepository(db DBPool, logger *slog.Logger) *CreditRepository {
	if db == nil {
		panic("DBPool cannot be nil for CreditRepository")
	}
	return &CreditRepository{db: db, logger: logger.With("component", "CreditRepository")}
}

// Save inserts a new credit application. The credits_credit_code_key
// unique index backs credit code uniqueness; a 23505 on it surfaces as
// credit.ErrDuplicateCreditCode.
func (r *CreditRepository) Save(ctx context.Context, cred *credit.Credit) error {
	if cred == nil {
		return fmt.Errorf("%w: credit cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert new credit", slog.String("creditCode", cred.CreditCode.String()))

	query := `
        INSERT INTO credits (credit_code, credit_value, day_first_installment, number_of_installments, status, customer_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		cred.CreditCode,
		cred.CreditValue,
		cred.DayFirstInstallment,
		cred.NumberOfInstallments,
		cred.Status,
		cred.CustomerID,
	).Scan(
		&cred.ID,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert credit due to unique constraint violation")
			if strings.Contains(translatedErr.Error(), "credit_code") {
				return fmt.Errorf(errMsgFormat, credit.ErrDuplicateCreditCode, translatedErr)
			}
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert credit", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert credit: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Credit inserted successfully", slog.Int64("creditID", cred.ID))
	return nil
}

func (r *CreditRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]*credit.Credit, error) {
	r.logger.InfoContext(ctx, "Attempting to find credits by customer ID", slog.Int64("customerID", customerID))

	query := `
        SELECT id, credit_code, credit_value, day_first_installment, number_of_installments, status, customer_id, created_at, updated_at
        FROM credits
        WHERE customer_id = $1
        ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query credits by customer ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query credits: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	credits := make([]*credit.Credit, 0)
	for rows.Next() {
		var cred credit.Credit
		err := rows.Scan(
			&cred.ID,
			&cred.CreditCode,
			&cred.CreditValue,
			&cred.DayFirstInstallment,
			&cred.NumberOfInstallments,
			&cred.Status,
			&cred.CustomerID,
			&cred.CreatedAt,
			&cred.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan credit row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan credit row: %w", apperrors.ErrDatabase, err)
		}
		credits = append(credits, &cred)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating credit rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating credit rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding credits", slog.Int("count", len(credits)))
	return credits, nil
}

func (r *CreditRepository) FindByCreditCode(ctx context.Context, creditCode uuid.UUID) (*credit.Credit, error) {
	r.logger.InfoContext(ctx, "Attempting to find credit by code", slog.String("creditCode", creditCode.String()))

	query := `
        SELECT id, credit_code, credit_value, day_first_installment, number_of_installments, status, customer_id, created_at, updated_at
        FROM credits
        WHERE credit_code = $1`

	var cred credit.Credit
	err := r.db.QueryRow(ctx, query, creditCode).Scan(
		&cred.ID,
		&cred.CreditCode,
		&cred.CreditValue,
		&cred.DayFirstInstallment,
		&cred.NumberOfInstallments,
		&cred.Status,
		&cred.CustomerID,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Credit not found")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan credit by code", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get credit by code: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Credit found successfully")
	return &cred, nil
}

func (r *CreditRepository) CountByStatus(ctx context.Context) (map[credit.CreditStatus]int64, error) {
	r.logger.DebugContext(ctx, "Attempting to count credits by status")

	query := `SELECT status, COUNT(*) FROM credits GROUP BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query credit counts", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to count credits by status: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	counts := make(map[credit.CreditStatus]int64)
	for rows.Next() {
		var status credit.CreditStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan credit count row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan credit count row: %w", apperrors.ErrDatabase, err)
		}
		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating credit count rows: %w", apperrors.ErrDatabase, err)
	}

	return counts, nil
}
