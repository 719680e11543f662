package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a uniquely named shared-cache in-memory database so the
// pool's connections all see the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Restaurant{}, &entity.MenuItem{},
		&entity.Cart{}, &entity.CartItem{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.Payment{},
		&entity.Notification{},
		&entity.Review{},
	)
	require.NoError(t, err)
	return db
}

func testPricing() Pricing {
	return Pricing{
		Currency:              "PKR",
		FlatDeliveryFee:       150,
		FreeDeliveryThreshold: 1000,
		TaxRate:               0.15,
	}
}

type fixture struct {
	DB       *gorm.DB
	Notify   *NotificationService
	Carts    *CartService
	Orders   *OrderService
	Payments *PaymentService
	Reviews  *ReviewService
	Gateway  *fakeGateway

	OrderRepo *repository.OrderRepository
	PayRepo   *repository.PaymentRepository
	NotifRepo *repository.NotificationRepository
	RestRepo  *repository.RestaurantRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop().Sugar()

	restRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	payRepo := repository.NewPaymentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	notify := NewNotificationService(notifRepo, log, 30*24*time.Hour)
	gateway := &fakeGateway{intentStatus: IntentSucceeded, chargeID: "ch_test", receiptURL: "https://pay.test/receipt"}
	payments := NewPaymentService(db, payRepo, orderRepo, restRepo, gateway, notify, log, 5*time.Second)
	orders := NewOrderService(db, orderRepo, cartRepo, menuRepo, restRepo, notify, log, testPricing())
	orders.Payments = payments
	reviews := NewReviewService(db, reviewRepo, orderRepo, restRepo, notify)
	carts := NewCartService(db, cartRepo, menuRepo)

	return &fixture{
		DB: db, Notify: notify, Carts: carts, Orders: orders, Payments: payments,
		Reviews: reviews, Gateway: gateway,
		OrderRepo: orderRepo, PayRepo: payRepo, NotifRepo: notifRepo, RestRepo: restRepo,
	}
}

func (f *fixture) user(t *testing.T, role string) *entity.User {
	t.Helper()
	u := &entity.User{
		Email:    fmt.Sprintf("%s@test.local", uuid.NewString()[:8]),
		Password: "x",
		Role:     role,
	}
	require.NoError(t, f.DB.Create(u).Error)
	return u
}

func (f *fixture) restaurant(t *testing.T, ownerID uint) *entity.Restaurant {
	t.Helper()
	r := &entity.Restaurant{Name: "Test Kitchen", Address: "1 Food St", OwnerID: ownerID, IsOpen: true}
	require.NoError(t, f.DB.Create(r).Error)
	return r
}

func (f *fixture) menuItem(t *testing.T, restID uint, name string, price int64) *entity.MenuItem {
	t.Helper()
	m := &entity.MenuItem{Name: name, Price: price, Available: true, RestaurantID: restID}
	require.NoError(t, f.DB.Create(m).Error)
	return m
}

// order seeds an order row directly in a given status, bypassing checkout.
func (f *fixture) order(t *testing.T, userID, restID uint, status entity.OrderStatus, total int64) *entity.Order {
	t.Helper()
	o := &entity.Order{
		UserID: userID, RestaurantID: restID,
		Status: status, PaymentState: entity.PayStatePending,
		Method:   entity.MethodCard,
		Subtotal: total, Total: total, Currency: "PKR",
		TrackingCode: "LB-" + uuid.NewString()[:12],
		Revision:     1,
	}
	require.NoError(t, f.DB.Create(o).Error)
	return o
}

// completedPayment seeds a captured payment row against the order.
func (f *fixture) completedPayment(t *testing.T, o *entity.Order, userID uint, amount int64) *entity.Payment {
	t.Helper()
	now := time.Now()
	p := &entity.Payment{
		Amount: amount, Currency: "PKR",
		Method: entity.MethodCard, Status: entity.PaymentCompleted,
		TransactionID: uuid.NewString(),
		IntentID:      "pi_seed", ChargeID: "ch_seed",
		ProcessedAt: &now,
		Revision:    1,
		OrderID:     o.ID, UserID: userID, RestaurantID: o.RestaurantID,
	}
	require.NoError(t, f.DB.Create(p).Error)
	return p
}

func (f *fixture) notifications(t *testing.T, userID uint, typ entity.NotificationType) []entity.Notification {
	t.Helper()
	var out []entity.Notification
	require.NoError(t, f.DB.Where("user_id = ? AND type = ?", userID, typ).Find(&out).Error)
	return out
}

// fakeGateway is an in-memory PaymentGateway for tests.
type fakeGateway struct {
	intentStatus string
	chargeID     string
	receiptURL   string
	errorMessage string

	createErr   error
	retrieveErr error
	refundErr   error

	createCalls   int
	retrieveCalls int
	refundCalls   int

	lastRefundAmount int64
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*GatewayIntent, error) {
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &GatewayIntent{
		ID:           fmt.Sprintf("pi_%d", g.createCalls),
		ClientSecret: "secret_test",
		Status:       "requires_payment_method",
	}, nil
}

func (g *fakeGateway) RetrieveIntent(ctx context.Context, id string) (*GatewayIntent, error) {
	g.retrieveCalls++
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	return &GatewayIntent{
		ID:           id,
		Status:       g.intentStatus,
		ChargeID:     g.chargeID,
		ReceiptURL:   g.receiptURL,
		ErrorMessage: g.errorMessage,
	}, nil
}

func (g *fakeGateway) CreateRefund(ctx context.Context, chargeID string, amountMinor int64) (*GatewayRefund, error) {
	g.refundCalls++
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.lastRefundAmount = amountMinor
	return &GatewayRefund{ID: fmt.Sprintf("re_%d", g.refundCalls), Status: "succeeded"}, nil
}
