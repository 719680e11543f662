package services

import (
	"testing"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateIntent(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 1495)

	out, err := f.Payments.CreateIntent(customer.ID, o.ID)
	require.NoError(t, err)
	assert.NotZero(t, out.PaymentID)
	assert.NotEmpty(t, out.TransactionID)
	assert.Equal(t, "secret_test", out.ClientSecret)
	assert.Equal(t, 1, f.Gateway.createCalls)

	var p entity.Payment
	require.NoError(t, f.DB.First(&p, out.PaymentID).Error)
	assert.Equal(t, entity.PaymentPending, p.Status)
	assert.Equal(t, int64(1495), p.Amount)
	assert.Equal(t, o.ID, p.OrderID)
}

func TestCreateIntentGuards(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)

	paid := f.order(t, customer.ID, rest.ID, entity.OrderConfirmed, 500)
	require.NoError(t, f.DB.Model(&entity.Order{}).Where("id = ?", paid.ID).
		Update("payment_state", entity.PayStatePaid).Error)
	_, err := f.Payments.CreateIntent(customer.ID, paid.ID)
	assert.Equal(t, apperr.AlreadyPaid, apperr.KindOf(err))

	cancelled := f.order(t, customer.ID, rest.ID, entity.OrderCancelled, 500)
	_, err = f.Payments.CreateIntent(customer.ID, cancelled.ID)
	assert.Equal(t, apperr.InvalidStatusTransition, apperr.KindOf(err))

	cash := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)
	require.NoError(t, f.DB.Model(&entity.Order{}).Where("id = ?", cash.ID).
		Update("method", entity.MethodCashOnDelivery).Error)
	_, err = f.Payments.CreateIntent(customer.ID, cash.ID)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	stranger := f.user(t, entity.RoleUser)
	other := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)
	_, err = f.Payments.CreateIntent(stranger.ID, other.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	assert.Zero(t, f.Gateway.createCalls, "no guard failure may reach the gateway")
}

func TestConfirmSuccess(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 1495)

	intent, err := f.Payments.CreateIntent(customer.ID, o.ID)
	require.NoError(t, err)

	out, err := f.Payments.Confirm(customer.ID, intent.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, out.Status)
	assert.Equal(t, "https://pay.test/receipt", out.ReceiptURL)

	var p entity.Payment
	require.NoError(t, f.DB.First(&p, intent.PaymentID).Error)
	assert.Equal(t, entity.PaymentCompleted, p.Status)
	assert.Equal(t, "ch_test", p.ChargeID)
	assert.NotNil(t, p.ProcessedAt)
	assert.Equal(t, uint(2), p.Revision)

	var got entity.Order
	require.NoError(t, f.DB.First(&got, o.ID).Error)
	assert.Equal(t, entity.PayStatePaid, got.PaymentState)
	assert.Equal(t, entity.OrderConfirmed, got.Status, "payment confirms a pending order")

	assert.Len(t, f.notifications(t, customer.ID, entity.NotifPaymentSuccess), 1)
}

func TestConfirmIdempotent(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)

	intent, err := f.Payments.CreateIntent(customer.ID, o.ID)
	require.NoError(t, err)
	_, err = f.Payments.Confirm(customer.ID, intent.PaymentID)
	require.NoError(t, err)
	calls := f.Gateway.retrieveCalls

	out, err := f.Payments.Confirm(customer.ID, intent.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, out.Status)
	assert.Equal(t, calls, f.Gateway.retrieveCalls, "repeat confirm short-circuits")
	assert.Len(t, f.notifications(t, customer.ID, entity.NotifPaymentSuccess), 1)
}

func TestConfirmDeclined(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)

	intent, err := f.Payments.CreateIntent(customer.ID, o.ID)
	require.NoError(t, err)

	f.Gateway.intentStatus = "requires_payment_method"
	f.Gateway.errorMessage = "card declined"

	_, err = f.Payments.Confirm(customer.ID, intent.PaymentID)
	assert.Equal(t, apperr.GatewayDeclined, apperr.KindOf(err))

	var p entity.Payment
	require.NoError(t, f.DB.First(&p, intent.PaymentID).Error)
	assert.Equal(t, entity.PaymentFailed, p.Status)
	assert.Equal(t, "card declined", p.FailureMessage)

	// Order untouched; the customer may open a new attempt.
	var got entity.Order
	require.NoError(t, f.DB.First(&got, o.ID).Error)
	assert.Equal(t, entity.OrderPending, got.Status)
	assert.Equal(t, entity.PayStatePending, got.PaymentState)

	f.Gateway.intentStatus = IntentSucceeded
	f.Gateway.errorMessage = ""
	retry, err := f.Payments.CreateIntent(customer.ID, o.ID)
	require.NoError(t, err)
	_, err = f.Payments.Confirm(customer.ID, retry.PaymentID)
	require.NoError(t, err)
}

func TestConfirmGatewayTimeoutLeavesRecord(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)

	intent, err := f.Payments.CreateIntent(customer.ID, o.ID)
	require.NoError(t, err)

	f.Gateway.retrieveErr = apperr.New(apperr.GatewayUnavailable, "gateway timeout")
	_, err = f.Payments.Confirm(customer.ID, intent.PaymentID)
	assert.Equal(t, apperr.GatewayUnavailable, apperr.KindOf(err))

	var p entity.Payment
	require.NoError(t, f.DB.First(&p, intent.PaymentID).Error)
	assert.Equal(t, entity.PaymentPending, p.Status, "outage must not guess an outcome")

	// Retry once the gateway is back.
	f.Gateway.retrieveErr = nil
	_, err = f.Payments.Confirm(customer.ID, intent.PaymentID)
	require.NoError(t, err)
}

func TestConfirmProcessing(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)

	intent, err := f.Payments.CreateIntent(customer.ID, o.ID)
	require.NoError(t, err)

	f.Gateway.intentStatus = IntentProcessing
	out, err := f.Payments.Confirm(customer.ID, intent.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentProcessing, out.Status)

	var got entity.Order
	require.NoError(t, f.DB.First(&got, o.ID).Error)
	assert.Equal(t, entity.PayStatePending, got.PaymentState)

	f.Gateway.intentStatus = IntentSucceeded
	out, err = f.Payments.Confirm(customer.ID, intent.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, out.Status)
}

func TestRefundPartial(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderDelivered, 1000)
	require.NoError(t, f.DB.Model(&entity.Order{}).Where("id = ?", o.ID).
		Update("payment_state", entity.PayStatePaid).Error)
	p := f.completedPayment(t, o, customer.ID, 1000)

	out, err := f.Payments.Refund(p.ID, 400, "cold food", owner.ID, entity.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPartiallyRefunded, out.Status)
	assert.Equal(t, int64(400), out.RefundAmount)
	assert.Equal(t, minorUnits(400), f.Gateway.lastRefundAmount)

	var gotP entity.Payment
	require.NoError(t, f.DB.First(&gotP, p.ID).Error)
	assert.Equal(t, entity.PaymentPartiallyRefunded, gotP.Status)
	assert.Equal(t, int64(400), gotP.RefundAmount)
	assert.NotNil(t, gotP.RefundedAt)

	// Partial refund does not cancel the order.
	var gotO entity.Order
	require.NoError(t, f.DB.First(&gotO, o.ID).Error)
	assert.Equal(t, entity.OrderDelivered, gotO.Status)
	assert.Equal(t, entity.PayStatePaid, gotO.PaymentState)

	assert.Len(t, f.notifications(t, customer.ID, entity.NotifPaymentRefund), 1)
}

func TestRefundFullCancelsOrder(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderConfirmed, 1000)
	require.NoError(t, f.DB.Model(&entity.Order{}).Where("id = ?", o.ID).
		Update("payment_state", entity.PayStatePaid).Error)
	p := f.completedPayment(t, o, customer.ID, 1000)

	out, err := f.Payments.Refund(p.ID, 1000, "restaurant closed", owner.ID, entity.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRefunded, out.Status)

	var gotO entity.Order
	require.NoError(t, f.DB.First(&gotO, o.ID).Error)
	assert.Equal(t, entity.OrderCancelled, gotO.Status)
	assert.Equal(t, entity.PayStateRefunded, gotO.PaymentState)
}

func TestRefundGuards(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderDelivered, 1000)
	p := f.completedPayment(t, o, customer.ID, 1000)

	_, err := f.Payments.Refund(p.ID, 1001, "", owner.ID, entity.RoleOwner)
	assert.Equal(t, apperr.RefundExceedsAmount, apperr.KindOf(err))

	_, err = f.Payments.Refund(p.ID, 0, "", owner.ID, entity.RoleOwner)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	stranger := f.user(t, entity.RoleOwner)
	_, err = f.Payments.Refund(p.ID, 100, "", stranger.ID, entity.RoleOwner)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	assert.Zero(t, f.Gateway.refundCalls, "no guard failure may reach the gateway")

	// Only completed payments are refundable.
	o2 := f.order(t, customer.ID, rest.ID, entity.OrderPending, 500)
	intent, err := f.Payments.CreateIntent(customer.ID, o2.ID)
	require.NoError(t, err)
	_, err = f.Payments.Refund(intent.PaymentID, 100, "", owner.ID, entity.RoleOwner)
	assert.Equal(t, apperr.InvalidStatusTransition, apperr.KindOf(err))
}

func TestRefundGatewayFailureLeavesPayment(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	o := f.order(t, customer.ID, rest.ID, entity.OrderDelivered, 1000)
	p := f.completedPayment(t, o, customer.ID, 1000)

	f.Gateway.refundErr = apperr.New(apperr.GatewayUnavailable, "gateway timeout")
	_, err := f.Payments.Refund(p.ID, 1000, "", owner.ID, entity.RoleOwner)
	assert.Equal(t, apperr.GatewayUnavailable, apperr.KindOf(err))

	var got entity.Payment
	require.NoError(t, f.DB.First(&got, p.ID).Error)
	assert.Equal(t, entity.PaymentCompleted, got.Status)
	assert.Zero(t, got.RefundAmount)

	// Retryable once the gateway recovers.
	f.Gateway.refundErr = nil
	_, err = f.Payments.Refund(p.ID, 1000, "", owner.ID, entity.RoleOwner)
	require.NoError(t, err)
}

func TestReconcileHealsUnmarkedOrder(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)

	// Simulate a crash between the payment write and the order write.
	o := f.order(t, customer.ID, rest.ID, entity.OrderPending, 700)
	f.completedPayment(t, o, customer.ID, 700)

	rec := NewReconcileService(f.DB, f.PayRepo, f.OrderRepo, zap.NewNop().Sugar())
	healed, err := rec.SweepOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, healed)

	var got entity.Order
	require.NoError(t, f.DB.First(&got, o.ID).Error)
	assert.Equal(t, entity.PayStatePaid, got.PaymentState)
	assert.Equal(t, entity.OrderConfirmed, got.Status)

	// Second sweep finds nothing.
	healed, err = rec.SweepOnce()
	require.NoError(t, err)
	assert.Zero(t, healed)
}

func TestReconcileSkipsCancelledOrders(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)

	o := f.order(t, customer.ID, rest.ID, entity.OrderCancelled, 700)
	f.completedPayment(t, o, customer.ID, 700)

	rec := NewReconcileService(f.DB, f.PayRepo, f.OrderRepo, zap.NewNop().Sugar())
	healed, err := rec.SweepOnce()
	require.NoError(t, err)
	assert.Zero(t, healed)

	var got entity.Order
	require.NoError(t, f.DB.First(&got, o.ID).Error)
	assert.Equal(t, entity.OrderCancelled, got.Status)
}
