package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-application-system/internal/domain/credit"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var creditsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "credit_applications_by_status",
	Help: "Number of credit applications per status, refreshed by the status report job.",
}, []string{"status"})

// StatusReportJob periodically snapshots how many credit applications sit
// in each status. Observational only; it never transitions a credit.
type StatusReportJob struct {
	repo   credit.Repository
	logger *slog.Logger
}

func NewStatusReportJob(repo credit.Repository, logger *slog.Logger) *StatusReportJob {
	if repo == nil || logger == nil {
		panic("StatusReportJob dependencies cannot be nil")
	}
	return &StatusReportJob{
		repo:   repo,
		logger: logger.With("job", "StatusReport"),
	}
}

func (j *StatusReportJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting credit status report job.")

	counts, err := j.repo.CountByStatus(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count credits by status, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run status report, failed to count credits: %w", err)
	}

	// Statuses with no rows must still reset their gauge to zero.
	for _, status := range []credit.CreditStatus{credit.StatusInProgress, credit.StatusApproved, credit.StatusReject} {
		count := counts[status]
		creditsByStatus.WithLabelValues(string(status)).Set(float64(count))
		j.logger.InfoContext(ctx, "Credit status count",
			slog.String("status", string(status)),
			slog.Int64("count", count))
	}

	j.logger.InfoContext(ctx, "Credit status report job finished.", slog.Duration("duration", time.Since(startTime)))
	return nil
}
