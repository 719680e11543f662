package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"

	"gorm.io/gorm"
)

// Advance moves an order forward along the lifecycle graph. Owner or admin
// only. The write is a compare-and-swap on (status, revision): a concurrent
// transition surfaces as ConcurrentModification, an illegal target as
// InvalidStatusTransition.
func (s *OrderService) Advance(actorID uint, role string, orderID uint, to entity.OrderStatus) error {
	if !to.Valid() {
		return apperr.New(apperr.Validation, fmt.Sprintf("unknown status %q", to))
	}

	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		return apperr.Wrap(apperr.NotFound, "order not found", err)
	}
	if err := s.authorizeOwner(actorID, o.RestaurantID, role); err != nil {
		return err
	}

	if to == entity.OrderCancelled {
		// Owner-side aborts go through the same gate as customer cancels.
		return s.cancel(o, actorID, role)
	}
	if !entity.CanTransition(o.Status, to) {
		return apperr.New(apperr.InvalidStatusTransition,
			fmt.Sprintf("cannot move order from %s to %s", o.Status, to))
	}

	extra := map[string]any{}
	if to == entity.OrderDelivered {
		now := time.Now()
		extra["actual_delivery_time"] = now
		// Cash orders settle on handover.
		if o.Method == entity.MethodCashOnDelivery {
			extra["payment_state"] = entity.PayStatePaid
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.Repo.TransitionCAS(tx, o.ID, o.Status, to, o.Revision, extra)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.ConcurrentModification, "order changed concurrently, reload and retry")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Notify.Emit(o.UserID, entity.NotifOrderStatus,
		"Order update",
		fmt.Sprintf("Order %s is now %s", o.TrackingCode, to),
		NotifData{OrderID: o.ID, RestaurantID: o.RestaurantID, TrackingCode: o.TrackingCode})
	return nil
}

// CancelByCustomer aborts the customer's own order while it is still Pending
// or Confirmed.
func (s *OrderService) CancelByCustomer(userID, orderID uint) error {
	o, err := s.Repo.GetOrderForUser(userID, orderID)
	if err != nil {
		return apperr.Wrap(apperr.NotFound, "order not found", err)
	}
	return s.cancel(o, userID, entity.RoleUser)
}

// cancel is the shared abort path. When a completed payment exists the refund
// is issued first; cancellation proceeds only once the money moved back, and
// the emitted notification distinguishes the two outcomes.
func (s *OrderService) cancel(o *entity.Order, actorID uint, role string) error {
	if !o.Status.CanCancel() {
		return apperr.New(apperr.InvalidStatusTransition,
			fmt.Sprintf("cannot cancel order in %s", o.Status))
	}

	refunded := false
	if o.PaymentState == entity.PayStatePaid && s.Payments != nil {
		p, err := s.Payments.Repo.LatestCompletedForOrder(o.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if p != nil {
			// Full refund; Refund flips the order to Cancelled itself on
			// success, so we are done after it.
			if _, err := s.Payments.Refund(p.ID, p.Amount, "order cancelled", actorID, role); err != nil {
				return err
			}
			refunded = true
		}
	}

	if !refunded {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			ok, err := s.Repo.TransitionCAS(tx, o.ID, o.Status, entity.OrderCancelled, o.Revision, nil)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.New(apperr.ConcurrentModification, "order changed concurrently, reload and retry")
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	typ := entity.NotifOrderCancelled
	if refunded {
		typ = entity.NotifOrderCancelledRefunded
	}
	data := NotifData{OrderID: o.ID, RestaurantID: o.RestaurantID, TrackingCode: o.TrackingCode}

	if role == entity.RoleUser {
		// Customer-initiated cancel tells the restaurant, not the customer.
		s.notifyOwner(o.RestaurantID, typ, "Order cancelled",
			fmt.Sprintf("Order %s was cancelled by the customer", o.TrackingCode), data)
	} else {
		s.Notify.Emit(o.UserID, typ, "Order cancelled",
			fmt.Sprintf("Order %s was cancelled by the restaurant", o.TrackingCode), data)
	}
	return nil
}
