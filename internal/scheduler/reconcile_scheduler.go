package scheduler

import (
	"fmt"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ReconcileScheduler periodically recomputes product review aggregates and
// raises a system notification when any had drifted.
type ReconcileScheduler struct {
	cron                *cron.Cron
	schedule            string
	reviewService       service.ReviewService
	notificationService service.NotificationService
}

func NewReconcileScheduler(
	schedule string,
	reviewService service.ReviewService,
	notificationService service.NotificationService,
) *ReconcileScheduler {
	return &ReconcileScheduler{
		cron:                cron.New(),
		schedule:            schedule,
		reviewService:       reviewService,
		notificationService: notificationService,
	}
}

func (s *ReconcileScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { _, _ = s.RunOnce() }); err != nil {
		logger.Error("Failed to add cron job for review reconciliation", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Review reconcile scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce performs a single reconciliation pass and returns the number of
// products repaired.
func (s *ReconcileScheduler) RunOnce() (int, error) {
	logger.Info("Starting scheduled review reconciliation")

	drift, err := s.reviewService.ReconcileAggregates()
	if err != nil {
		logger.Error("Review reconciliation failed", err)
		return len(drift), err
	}

	if len(drift) > 0 {
		_, err := s.notificationService.Notify(
			model.NotificationTypeSystem,
			"Review Ratings Repaired",
			fmt.Sprintf("Recomputed ratings for %d product(s) whose review totals were out of date", len(drift)),
			"/reviews",
		)
		if err != nil {
			logger.Error("Failed to record reconciliation notification", err)
		}
	}

	logger.Info("Review reconciliation finished", map[string]interface{}{
		"repaired": len(drift),
	})
	return len(drift), nil
}

func (s *ReconcileScheduler) Stop() {
	logger.Info("Stopping review reconcile scheduler")
	<-s.cron.Stop().Done()
	logger.Info("Review reconcile scheduler stopped")
}
