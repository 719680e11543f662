package services

import (
	"context"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReconcileService is the out-of-band sweep that detects and repairs the one
// sanctioned inconsistency: a Completed payment whose order never got marked
// paid because the process died between the two writes.
type ReconcileService struct {
	DB        *gorm.DB
	Payments  *repository.PaymentRepository
	OrderRepo *repository.OrderRepository
	Log       *zap.SugaredLogger
}

func NewReconcileService(db *gorm.DB, pr *repository.PaymentRepository, or *repository.OrderRepository, log *zap.SugaredLogger) *ReconcileService {
	return &ReconcileService{DB: db, Payments: pr, OrderRepo: or, Log: log}
}

// SweepOnce heals every detectable payment/order disagreement and returns how
// many orders it repaired.
func (s *ReconcileService) SweepOnce() (int, error) {
	stale, err := s.Payments.ListUnreconciled(100)
	if err != nil {
		return 0, err
	}

	healed := 0
	for _, p := range stale {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return s.OrderRepo.MarkPaid(tx, p.OrderID)
		})
		if err != nil {
			s.Log.Errorw("reconcile heal failed", "payment", p.ID, "order", p.OrderID, "err", err)
			continue
		}
		s.Log.Warnw("healed unconfirmed paid order", "payment", p.ID, "order", p.OrderID)
		healed++
	}
	return healed, nil
}

// Run sweeps on a ticker until ctx is done.
func (s *ReconcileService) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.SweepOnce(); err != nil {
				s.Log.Errorw("reconcile sweep failed", "err", err)
			}
		}
	}
}
