package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-application-system/internal/domain/customer"
	"credit-application-system/internal/event"
	"credit-application-system/internal/pkg/apperrors"

	"github.com/google/uuid"
)

// maxMonthsUntilFirstInstallment bounds how far in the future the first
// installment may fall, measured from the clock at validation time.
const maxMonthsUntilFirstInstallment = 3

type CreditService interface {
	CreateCredit(ctx context.Context, cred *Credit) (*Credit, error)
	ValidDayFirstInstallment(dayFirstInstallment time.Time) (bool, error)
	FindAllByCustomer(ctx context.Context, customerID int64) ([]*Credit, error)
	FindByCreditCode(ctx context.Context, customerID int64, creditCode uuid.UUID) (*Credit, error)
}

var _ CreditService = (*creditService)(nil)

type creditService struct {
	repo            Repository
	customerService customer.CustomerService
	pub             event.EventPublisher
	logger          *slog.Logger
}

func NewCreditService(repo Repository, customerService customer.CustomerService, pub event.EventPublisher, logger *slog.Logger) CreditService {
	if repo == nil {
		panic("credit repository cannot be nil")
	}
	if customerService == nil {
		panic("customer service cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCreditService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NoopEventPublisher{}
		logger.Warn("Warning: No event publisher provided to NewCreditService, using no-op publisher")
	}

	return &creditService{
		repo:            repo,
		customerService: customerService,
		pub:             pub,
		logger:          logger.With(slog.String("component", "creditService")),
	}
}

// CreateCredit validates the first installment date, resolves the owning
// customer (exactly one lookup) and persists the application (exactly one
// write). Any failure before the write leaves no partial state behind.
func (s *creditService) CreateCredit(ctx context.Context, cred *Credit) (*Credit, error) {
	s.logger.InfoContext(ctx, "Attempting to create credit application")

	if cred == nil {
		return nil, fmt.Errorf("%w: credit cannot be nil", apperrors.ErrInvalidArgument)
	}

	if _, err := s.ValidDayFirstInstallment(cred.DayFirstInstallment); err != nil {
		s.logger.WarnContext(ctx, "Business rule failed: invalid first installment date",
			slog.Time("dayFirstInstallment", cred.DayFirstInstallment))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Resolving owning customer", slog.Int64("customerID", cred.CustomerID))
	cust, err := s.customerService.GetCustomer(ctx, cred.CustomerID)
	if err != nil {
		s.logger.WarnContext(ctx, "Customer lookup failed, aborting credit creation", slog.Any("error", err))
		return nil, err
	}

	cred.CreditCode = uuid.New()
	cred.Status = StatusInProgress

	s.logger.InfoContext(ctx, "Calling repository Save", slog.String("creditCode", cred.CreditCode.String()))
	if err := s.repo.Save(ctx, cred); err != nil {
		if errors.Is(err, ErrDuplicateCreditCode) || errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Credit code conflict detected during save")
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository failed to save credit", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save credit: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully saved credit application, publishing event",
		slog.Int64("creditID", cred.ID))
	appliedEvent := event.CreditAppliedEvent{
		Timestamp: time.Now(),
		Payload: event.CreditEventPayload{
			CreditCode:           cred.CreditCode.String(),
			CreditValue:          cred.CreditValue,
			NumberOfInstallments: cred.NumberOfInstallments,
			Status:               string(cred.Status),
			CustomerID:           cred.CustomerID,
			CustomerEmail:        cust.Email,
		},
	}
	if pubErr := s.pub.PublishCreditApplied(ctx, appliedEvent); pubErr != nil {
		s.logger.ErrorContext(ctx, "Credit created, but FAILED to publish applied event", slog.Any("error", pubErr))
	}

	return cred, nil
}

// ValidDayFirstInstallment reports whether the date falls within three
// months of the current date, boundary inclusive. The limit is computed
// from the wall clock at call time, not from a stored creation date.
func (s *creditService) ValidDayFirstInstallment(dayFirstInstallment time.Time) (bool, error) {
	limit := time.Now().AddDate(0, maxMonthsUntilFirstInstallment, 0)
	if truncateToDay(dayFirstInstallment).After(truncateToDay(limit)) {
		return false, apperrors.NewBusinessError("Invalid Date")
	}
	return true, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FindAllByCustomer lists the customer's credit applications. An unknown
// customer yields an empty list, not an error.
func (s *creditService) FindAllByCustomer(ctx context.Context, customerID int64) ([]*Credit, error) {
	s.logger.InfoContext(ctx, "Attempting to list credits by customer", slog.Int64("customerID", customerID))

	credits, err := s.repo.FindAllByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing credits", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list credits for customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved credits", slog.Int("count", len(credits)))
	return credits, nil
}

// FindByCreditCode resolves a credit by its external code and checks that
// it belongs to the requesting customer. An ownership mismatch is reported
// distinctly from not-found.
func (s *creditService) FindByCreditCode(ctx context.Context, customerID int64, creditCode uuid.UUID) (*Credit, error) {
	s.logger.InfoContext(ctx, "Attempting to find credit by code", slog.String("creditCode", creditCode.String()))

	cred, err := s.repo.FindByCreditCode(ctx, creditCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Credit not found by repository")
			return nil, apperrors.NewBusinessError("Creditcode %s not found", creditCode)
		}
		s.logger.ErrorContext(ctx, "Repository error finding credit by code", slog.Any("error", err))
		return nil, fmt.Errorf("failed to find credit by code %s: %w", creditCode, err)
	}

	if cred.CustomerID != customerID {
		s.logger.WarnContext(ctx, "Credit ownership mismatch",
			slog.Int64("requestingCustomerID", customerID),
			slog.Int64("owningCustomerID", cred.CustomerID))
		return nil, apperrors.NewBusinessError("Contact admin")
	}

	return cred, nil
}
