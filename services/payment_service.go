package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	DB        *gorm.DB
	Repo      *repository.PaymentRepository
	OrderRepo *repository.OrderRepository
	RestRepo  *repository.RestaurantRepository
	Gateway   PaymentGateway
	Notify    *NotificationService
	Log       *zap.SugaredLogger

	Timeout time.Duration
}

func NewPaymentService(
	db *gorm.DB,
	repo *repository.PaymentRepository,
	orderRepo *repository.OrderRepository,
	restRepo *repository.RestaurantRepository,
	gateway PaymentGateway,
	notify *NotificationService,
	log *zap.SugaredLogger,
	timeout time.Duration,
) *PaymentService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaymentService{
		DB: db, Repo: repo, OrderRepo: orderRepo, RestRepo: restRepo,
		Gateway: gateway, Notify: notify, Log: log, Timeout: timeout,
	}
}

// minorUnits converts whole PKR to the gateway's paisa representation. This
// is the only place amounts change units.
func minorUnits(amount int64) int64 { return amount * 100 }

type IntentOut struct {
	PaymentID     uint   `json:"paymentId"`
	TransactionID string `json:"transactionId"`
	ClientSecret  string `json:"clientSecret"`
}

// CreateIntent opens a payment attempt for the caller's own unpaid order.
// Re-attempting after a failure creates a fresh record; the newest
// non-terminal one is the actionable attempt.
func (s *PaymentService) CreateIntent(userID, orderID uint) (*IntentOut, error) {
	o, err := s.OrderRepo.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "order not found", err)
	}
	if o.PaymentState == entity.PayStatePaid {
		return nil, apperr.New(apperr.AlreadyPaid, "order is already paid")
	}
	if o.Status == entity.OrderCancelled {
		return nil, apperr.New(apperr.InvalidStatusTransition, "order is cancelled")
	}
	if o.Method == entity.MethodCashOnDelivery {
		return nil, apperr.New(apperr.Validation, "cash orders have no payment intent")
	}

	txnID := uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	intent, err := s.Gateway.CreateIntent(ctx, minorUnits(o.Total), o.Currency, map[string]string{
		"order_id":       fmt.Sprint(o.ID),
		"tracking_code":  o.TrackingCode,
		"transaction_id": txnID,
	})
	if err != nil {
		return nil, err
	}

	p := entity.Payment{
		Amount:        o.Total,
		Currency:      o.Currency,
		Method:        o.Method,
		Status:        entity.PaymentPending,
		TransactionID: txnID,
		IntentID:      intent.ID,
		OrderID:       o.ID,
		UserID:        userID,
		RestaurantID:  o.RestaurantID,
	}
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.Create(tx, &p)
	}); err != nil {
		return nil, err
	}

	return &IntentOut{PaymentID: p.ID, TransactionID: p.TransactionID, ClientSecret: intent.ClientSecret}, nil
}

type ConfirmOut struct {
	PaymentID  uint                 `json:"paymentId"`
	Status     entity.PaymentStatus `json:"status"`
	ReceiptURL string               `json:"receiptUrl,omitempty"`
}

// Confirm settles a payment attempt by asking the gateway, never the client,
// what happened. On success the payment write lands first, then the order;
// a crash between the two is healed by the reconciliation sweep.
func (s *PaymentService) Confirm(userID, paymentID uint) (*ConfirmOut, error) {
	p, err := s.Repo.GetForUser(paymentID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "payment not found", err)
	}
	if p.Status == entity.PaymentCompleted {
		return &ConfirmOut{PaymentID: p.ID, Status: p.Status, ReceiptURL: p.ReceiptURL}, nil
	}
	if !p.Status.Actionable() {
		return nil, apperr.New(apperr.InvalidStatusTransition,
			fmt.Sprintf("payment is %s and cannot be confirmed", p.Status))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	intent, err := s.Gateway.RetrieveIntent(ctx, p.IntentID)
	if err != nil {
		// Timeout or outage: leave the record as-is, caller retries later.
		return nil, err
	}

	switch intent.Status {
	case IntentSucceeded:
		now := time.Now()
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			ok, err := s.Repo.UpdateCAS(tx, p.ID, p.Revision, map[string]any{
				"status":       entity.PaymentCompleted,
				"charge_id":    intent.ChargeID,
				"receipt_url":  intent.ReceiptURL,
				"processed_at": now,
			})
			if err != nil {
				return err
			}
			if !ok {
				return apperr.New(apperr.ConcurrentModification, "payment changed concurrently")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		// Second aggregate. If this write is lost the sweep repairs it; the
		// intermediate state is an error condition, never a resting one.
		if err := s.DB.Transaction(func(tx *gorm.DB) error {
			return s.OrderRepo.MarkPaid(tx, p.OrderID)
		}); err != nil {
			s.Log.Errorw("payment completed but order update failed; reconciliation will heal",
				"payment", p.ID, "order", p.OrderID, "err", err)
		}

		o, oerr := s.OrderRepo.GetOrder(p.OrderID)
		code := ""
		if oerr == nil {
			code = o.TrackingCode
		}
		s.Notify.Emit(p.UserID, entity.NotifPaymentSuccess,
			"Payment received",
			fmt.Sprintf("Payment of %d %s for order %s succeeded", p.Amount, p.Currency, code),
			NotifData{OrderID: p.OrderID, Amount: p.Amount, TrackingCode: code})

		return &ConfirmOut{PaymentID: p.ID, Status: entity.PaymentCompleted, ReceiptURL: intent.ReceiptURL}, nil

	case IntentProcessing:
		if p.Status != entity.PaymentProcessing {
			if err := s.DB.Transaction(func(tx *gorm.DB) error {
				_, err := s.Repo.UpdateCAS(tx, p.ID, p.Revision, map[string]any{
					"status": entity.PaymentProcessing,
				})
				return err
			}); err != nil {
				return nil, err
			}
		}
		return &ConfirmOut{PaymentID: p.ID, Status: entity.PaymentProcessing}, nil

	default:
		// Declined. The order is left untouched; the customer may open a new
		// attempt.
		msg := intent.ErrorMessage
		if msg == "" {
			msg = "payment was not completed"
		}
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			ok, err := s.Repo.UpdateCAS(tx, p.ID, p.Revision, map[string]any{
				"status":          entity.PaymentFailed,
				"failure_message": msg,
			})
			if err != nil {
				return err
			}
			if !ok {
				return apperr.New(apperr.ConcurrentModification, "payment changed concurrently")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return nil, apperr.New(apperr.GatewayDeclined, msg)
	}
}

type RefundOut struct {
	PaymentID    uint                 `json:"paymentId"`
	RefundID     string               `json:"refundId"`
	RefundAmount int64                `json:"refundAmount"`
	Status       entity.PaymentStatus `json:"status"`
}

// Refund reverses up to the full captured amount. The gateway call happens
// first; local state is mutated only after the processor accepted the refund,
// so a gateway failure leaves the Payment untouched and retryable.
func (s *PaymentService) Refund(paymentID uint, amount int64, reason string, actorID uint, role string) (*RefundOut, error) {
	p, err := s.Repo.Get(paymentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "payment not found", err)
	}
	if err := s.authorizeRefund(p, actorID, role); err != nil {
		return nil, err
	}
	if p.Status != entity.PaymentCompleted {
		return nil, apperr.New(apperr.InvalidStatusTransition,
			fmt.Sprintf("payment is %s, only completed payments can be refunded", p.Status))
	}
	if amount <= 0 {
		return nil, apperr.New(apperr.Validation, "refund amount must be positive")
	}
	if amount > p.Amount {
		return nil, apperr.New(apperr.RefundExceedsAmount, "refund exceeds captured amount")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	refund, err := s.Gateway.CreateRefund(ctx, p.ChargeID, minorUnits(amount))
	if err != nil {
		return nil, err
	}

	full := amount == p.Amount
	status := entity.PaymentPartiallyRefunded
	if full {
		status = entity.PaymentRefunded
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.Repo.UpdateCAS(tx, p.ID, p.Revision, map[string]any{
			"status":        status,
			"refund_id":     refund.ID,
			"refund_amount": amount,
			"refund_reason": reason,
			"refunded_at":   now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.ConcurrentModification, "payment changed concurrently")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if full {
		// Full refund cancels the order and flips its payment state.
		if err := s.DB.Transaction(func(tx *gorm.DB) error {
			o, err := s.OrderRepo.GetOrder(p.OrderID)
			if err != nil {
				return err
			}
			if o.Status != entity.OrderCancelled {
				if _, err := s.OrderRepo.TransitionCAS(tx, o.ID, o.Status, entity.OrderCancelled, o.Revision, nil); err != nil {
					return err
				}
			}
			return s.OrderRepo.SetPaymentState(tx, o.ID, entity.PayStateRefunded)
		}); err != nil {
			s.Log.Errorw("refund applied but order update failed", "payment", p.ID, "order", p.OrderID, "err", err)
		}
	}

	s.Notify.Emit(p.UserID, entity.NotifPaymentRefund,
		"Refund issued",
		fmt.Sprintf("%d %s was refunded to you", amount, p.Currency),
		NotifData{OrderID: p.OrderID, Amount: amount})

	return &RefundOut{PaymentID: p.ID, RefundID: refund.ID, RefundAmount: amount, Status: status}, nil
}

func (s *PaymentService) authorizeRefund(p *entity.Payment, actorID uint, role string) error {
	if role == entity.RoleAdmin {
		return nil
	}
	// The paying customer triggers refunds only through order cancellation.
	if p.UserID == actorID {
		return nil
	}
	ok, err := s.RestRepo.IsOwnedBy(p.RestaurantID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.Forbidden, "not allowed to refund this payment")
	}
	return nil
}

func (s *PaymentService) ListForUser(userID uint, limit int) ([]entity.Payment, error) {
	return s.Repo.ListForUser(userID, limit)
}
