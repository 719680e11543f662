package services

import (
	"testing"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceMatrix(t *testing.T) {
	froms := []entity.OrderStatus{
		entity.OrderPending, entity.OrderConfirmed, entity.OrderPreparing,
		entity.OrderReady, entity.OrderOutForDelivery, entity.OrderDelivered, entity.OrderCancelled,
	}
	tos := []entity.OrderStatus{
		entity.OrderConfirmed, entity.OrderPreparing, entity.OrderReady,
		entity.OrderOutForDelivery, entity.OrderDelivered,
	}

	for _, from := range froms {
		for _, to := range tos {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				f := newFixture(t)
				owner := f.user(t, entity.RoleOwner)
				customer := f.user(t, entity.RoleUser)
				rest := f.restaurant(t, owner.ID)
				o := f.order(t, customer.ID, rest.ID, from, 500)

				err := f.Orders.Advance(owner.ID, entity.RoleOwner, o.ID, to)

				var got entity.Order
				require.NoError(t, f.DB.First(&got, o.ID).Error)
				if entity.CanTransition(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, got.Status)
					assert.Equal(t, o.Revision+1, got.Revision)
				} else {
					assert.Equal(t, apperr.InvalidStatusTransition, apperr.KindOf(err))
					assert.Equal(t, from, got.Status, "failed transition must not move the order")
					assert.Equal(t, o.Revision, got.Revision)
				}
			})
		}
	}
}

func TestAdvanceUnknownStatusRejected(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)

	err := f.Orders.Advance(owner.ID, entity.RoleOwner, o.ID, entity.OrderStatus("Shipped"))
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestAdvanceByStrangerForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	other := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)

	err := f.Orders.Advance(other.ID, entity.RoleOwner, o.ID, entity.OrderConfirmed)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestAdvanceDeliveredStampsTime(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderOutForDelivery, 500)

	require.NoError(t, f.Orders.Advance(owner.ID, entity.RoleOwner, o.ID, entity.OrderDelivered))

	var got entity.Order
	require.NoError(t, f.DB.First(&got, o.ID).Error)
	assert.Equal(t, entity.OrderDelivered, got.Status)
	require.NotNil(t, got.ActualDeliveryTime)
	// Card order: handover does not settle payment.
	assert.Equal(t, entity.PayStatePending, got.PaymentState)

	// Customer gets a status notification.
	ns := f.notifications(t, customer.ID, entity.NotifOrderStatus)
	assert.Len(t, ns, 1)
}

func TestAdvanceDeliveredSettlesCashOrder(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderOutForDelivery, 500)
	require.NoError(t, f.DB.Model(&entity.Order{}).Where("id = ?", o.ID).
		Update("method", entity.MethodCashOnDelivery).Error)

	require.NoError(t, f.Orders.Advance(owner.ID, entity.RoleOwner, o.ID, entity.OrderDelivered))

	var got entity.Order
	require.NoError(t, f.DB.First(&got, o.ID).Error)
	assert.Equal(t, entity.PayStatePaid, got.PaymentState)
}

func TestCancelWindows(t *testing.T) {
	cases := []struct {
		status entity.OrderStatus
		ok     bool
	}{
		{entity.OrderPending, true},
		{entity.OrderConfirmed, true},
		{entity.OrderPreparing, false},
		{entity.OrderReady, false},
		{entity.OrderOutForDelivery, false},
		{entity.OrderDelivered, false},
		{entity.OrderCancelled, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			f := newFixture(t)
			owner := f.user(t, entity.RoleOwner)
			customer := f.user(t, entity.RoleUser)
			rest := f.restaurant(t, owner.ID)
			o := f.order(t, customer.ID, rest.ID, tc.status, 500)

			err := f.Orders.CancelByCustomer(customer.ID, o.ID)

			var got entity.Order
			require.NoError(t, f.DB.First(&got, o.ID).Error)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, entity.OrderCancelled, got.Status)
			} else {
				assert.Equal(t, apperr.InvalidStatusTransition, apperr.KindOf(err))
				assert.Equal(t, tc.status, got.Status)
			}
		})
	}
}

func TestCancelUnpaidOrderNotifiesOwnerWithoutRefund(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)

	require.NoError(t, f.Orders.CancelByCustomer(customer.ID, o.ID))

	assert.Zero(t, f.Gateway.refundCalls)
	assert.Len(t, f.notifications(t, owner.ID, entity.NotifOrderCancelled), 1)
	assert.Empty(t, f.notifications(t, owner.ID, entity.NotifOrderCancelledRefunded))
}

func TestCancelPaidOrderRefundsFirst(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderConfirmed, 1495)
	require.NoError(t, f.DB.Model(&entity.Order{}).Where("id = ?", o.ID).
		Update("payment_state", entity.PayStatePaid).Error)
	p := f.completedPayment(t, o, customer.ID, 1495)

	require.NoError(t, f.Orders.CancelByCustomer(customer.ID, o.ID))

	assert.Equal(t, 1, f.Gateway.refundCalls)
	assert.Equal(t, minorUnits(1495), f.Gateway.lastRefundAmount)

	var gotP entity.Payment
	require.NoError(t, f.DB.First(&gotP, p.ID).Error)
	assert.Equal(t, entity.PaymentRefunded, gotP.Status)
	assert.Equal(t, int64(1495), gotP.RefundAmount)

	var gotO entity.Order
	require.NoError(t, f.DB.First(&gotO, o.ID).Error)
	assert.Equal(t, entity.OrderCancelled, gotO.Status)
	assert.Equal(t, entity.PayStateRefunded, gotO.PaymentState)

	assert.Len(t, f.notifications(t, owner.ID, entity.NotifOrderCancelledRefunded), 1)
}

func TestCancelPaidOrderGatewayDownLeavesOrderAlone(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderConfirmed, 900)
	require.NoError(t, f.DB.Model(&entity.Order{}).Where("id = ?", o.ID).
		Update("payment_state", entity.PayStatePaid).Error)
	p := f.completedPayment(t, o, customer.ID, 900)

	f.Gateway.refundErr = apperr.New(apperr.GatewayUnavailable, "gateway timeout")

	err := f.Orders.CancelByCustomer(customer.ID, o.ID)
	assert.Equal(t, apperr.GatewayUnavailable, apperr.KindOf(err))

	var gotO entity.Order
	require.NoError(t, f.DB.First(&gotO, o.ID).Error)
	assert.Equal(t, entity.OrderConfirmed, gotO.Status, "no refund means no cancel")
	var gotP entity.Payment
	require.NoError(t, f.DB.First(&gotP, p.ID).Error)
	assert.Equal(t, entity.PaymentCompleted, gotP.Status)
}

func TestTransitionCASStaleRevision(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)

	// A concurrent writer already bumped the row.
	require.NoError(t, f.DB.Model(&entity.Order{}).Where("id = ?", o.ID).
		Update("revision", o.Revision+1).Error)

	ok, err := f.OrderRepo.TransitionCAS(f.DB, o.ID, entity.OrderPending, entity.OrderConfirmed, o.Revision, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	var got entity.Order
	require.NoError(t, f.DB.First(&got, o.ID).Error)
	assert.Equal(t, entity.OrderPending, got.Status)
}
