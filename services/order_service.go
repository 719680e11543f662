package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/configs"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pricing carries the configurable checkout knobs.
type Pricing struct {
	Currency              string
	FlatDeliveryFee       int64
	FreeDeliveryThreshold int64
	TaxRate               float64
}

func PricingFromConfig(cfg *configs.Config) Pricing {
	return Pricing{
		Currency:              cfg.Currency,
		FlatDeliveryFee:       cfg.FlatDeliveryFee,
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		TaxRate:               cfg.TaxRate,
	}
}

// DeliveryFee is waived above the free-delivery threshold.
func (p Pricing) DeliveryFee(subtotal int64) int64 {
	if subtotal > p.FreeDeliveryThreshold {
		return 0
	}
	return p.FlatDeliveryFee
}

func (p Pricing) Tax(subtotal int64) int64 {
	return int64(math.Round(float64(subtotal) * p.TaxRate))
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	CartRepo *repository.CartRepository
	MenuRepo *repository.MenuRepository
	RestRepo *repository.RestaurantRepository

	Payments *PaymentService
	Notify   *NotificationService
	Log      *zap.SugaredLogger

	Pricing Pricing
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	menuRepo *repository.MenuRepository,
	restRepo *repository.RestaurantRepository,
	notify *NotificationService,
	log *zap.SugaredLogger,
	pricing Pricing,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, CartRepo: cartRepo, MenuRepo: menuRepo, RestRepo: restRepo,
		Notify: notify, Log: log, Pricing: pricing,
	}
}

// ----- DTOs -----

type CheckoutIn struct {
	DeliveryAddress     string `json:"deliveryAddress" binding:"required"`
	PaymentMethod       string `json:"paymentMethod" binding:"required,oneof=card cash_on_delivery"`
	SpecialInstructions string `json:"specialInstructions"`
}

type OrderDetail struct {
	ID                 uint                `json:"id"`
	Subtotal           int64               `json:"subtotal"`
	DeliveryFee        int64               `json:"deliveryFee"`
	Tax                int64               `json:"tax"`
	Total              int64               `json:"total"`
	Currency           string              `json:"currency"`
	Status             entity.OrderStatus  `json:"status"`
	PaymentState       entity.PaymentState `json:"paymentState"`
	PaymentMethod      entity.PaymentMethod `json:"paymentMethod"`
	TrackingCode       string              `json:"trackingCode"`
	RestaurantID       uint                `json:"restaurantId"`
	DeliveryAddress    string              `json:"deliveryAddress"`
	ActualDeliveryTime any                 `json:"actualDeliveryTime,omitempty"`
	Items              []entity.OrderItem  `json:"items"`
}

// newTrackingCode builds the customer-facing identifier. Uniqueness is backed
// by the index on orders.tracking_code.
func newTrackingCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "LB-" + raw[:12]
}

// ----- Checkout -----

// Checkout turns the user's cart into an Order. Prices and names are
// re-resolved and snapshotted at this moment; the cart is cleared only after
// the order transaction commits.
func (s *OrderService) Checkout(userID uint, in *CheckoutIn) (*OrderDetail, error) {
	cart, err := s.CartRepo.GetCartWithItems(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.New(apperr.EmptyCart, "cart is empty")
	}

	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown payment method")
	}

	// Fresh snapshot per line. The cart keeps a price for display, but the
	// order records the menu's price as of checkout.
	type line struct {
		menuItemID uint
		name       string
		qty        int
		unitPrice  int64
		note       string
	}
	restaurantID := uint(0)
	lines := make([]line, 0, len(cart.Items))
	var subtotal int64
	for _, it := range cart.Items {
		m, err := s.MenuRepo.GetBasics(it.MenuItemID)
		if err != nil {
			return nil, apperr.Wrap(apperr.NotFound, "menu item no longer exists", err)
		}
		if restaurantID == 0 {
			restaurantID = m.RestaurantID
		}
		if m.RestaurantID != restaurantID {
			return nil, apperr.New(apperr.CrossRestaurant, "cart spans more than one restaurant")
		}
		subtotal += m.Price * int64(it.Qty)
		lines = append(lines, line{
			menuItemID: m.ID, name: m.Name, qty: it.Qty, unitPrice: m.Price, note: it.Note,
		})
	}

	deliveryFee := s.Pricing.DeliveryFee(subtotal)
	tax := s.Pricing.Tax(subtotal)
	total := subtotal + deliveryFee + tax

	order := entity.Order{
		UserID:              userID,
		RestaurantID:        restaurantID,
		Status:              entity.OrderPending,
		PaymentState:        entity.PayStatePending,
		Method:              method,
		Subtotal:            subtotal,
		DeliveryFee:         deliveryFee,
		Tax:                 tax,
		Total:               total,
		Currency:            s.Pricing.Currency,
		DeliveryAddress:     in.DeliveryAddress,
		SpecialInstructions: in.SpecialInstructions,
		TrackingCode:        newTrackingCode(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}
		for _, l := range lines {
			oi := entity.OrderItem{
				OrderID:    order.ID,
				MenuItemID: l.menuItemID,
				Name:       l.name,
				Qty:        l.qty,
				UnitPrice:  l.unitPrice,
				Total:      l.unitPrice * int64(l.qty),
				Note:       l.note,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cart clearing is sequenced strictly after order persistence. A stray
	// cart is recoverable; a lost order is not.
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.ClearCart(tx, userID)
	}); err != nil {
		s.Log.Errorw("cart clear after checkout failed", "user", userID, "order", order.ID, "err", err)
	}

	s.notifyOwner(restaurantID, entity.NotifNewOrder,
		"New order received",
		fmt.Sprintf("Order %s for %d %s", order.TrackingCode, total, order.Currency),
		NotifData{OrderID: order.ID, RestaurantID: restaurantID, Amount: total, TrackingCode: order.TrackingCode})

	return s.detail(&order)
}

// Reorder creates a fresh order from a previous order's lines at current
// prices. Same-restaurant and availability rules apply again.
func (s *OrderService) Reorder(userID, orderID uint, in *CheckoutIn) (*OrderDetail, error) {
	prev, err := s.Repo.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "order not found", err)
	}
	items, err := s.Repo.GetOrderItems(prev.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.New(apperr.Validation, "original order has no items")
	}

	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown payment method")
	}

	var subtotal int64
	type line struct {
		menuItemID uint
		name       string
		qty        int
		unitPrice  int64
		note       string
	}
	lines := make([]line, 0, len(items))
	for _, it := range items {
		m, err := s.MenuRepo.GetBasics(it.MenuItemID)
		if err != nil {
			return nil, apperr.Wrap(apperr.NotFound, "menu item no longer exists", err)
		}
		if m.RestaurantID != prev.RestaurantID {
			return nil, apperr.New(apperr.CrossRestaurant, "menu item moved restaurants")
		}
		if !m.Available {
			return nil, apperr.New(apperr.Validation, fmt.Sprintf("%s is unavailable", m.Name))
		}
		subtotal += m.Price * int64(it.Qty)
		lines = append(lines, line{menuItemID: m.ID, name: m.Name, qty: it.Qty, unitPrice: m.Price, note: it.Note})
	}

	deliveryFee := s.Pricing.DeliveryFee(subtotal)
	tax := s.Pricing.Tax(subtotal)

	order := entity.Order{
		UserID:              userID,
		RestaurantID:        prev.RestaurantID,
		Status:              entity.OrderPending,
		PaymentState:        entity.PayStatePending,
		Method:              method,
		Subtotal:            subtotal,
		DeliveryFee:         deliveryFee,
		Tax:                 tax,
		Total:               subtotal + deliveryFee + tax,
		Currency:            s.Pricing.Currency,
		DeliveryAddress:     in.DeliveryAddress,
		SpecialInstructions: in.SpecialInstructions,
		TrackingCode:        newTrackingCode(),
		ReorderOfID:         &prev.ID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}
		for _, l := range lines {
			oi := entity.OrderItem{
				OrderID: order.ID, MenuItemID: l.menuItemID, Name: l.name,
				Qty: l.qty, UnitPrice: l.unitPrice, Total: l.unitPrice * int64(l.qty), Note: l.note,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyOwner(order.RestaurantID, entity.NotifNewOrder,
		"New order received",
		fmt.Sprintf("Order %s for %d %s", order.TrackingCode, order.Total, order.Currency),
		NotifData{OrderID: order.ID, RestaurantID: order.RestaurantID, Amount: order.Total, TrackingCode: order.TrackingCode})

	return s.detail(&order)
}

// ----- List & Detail -----

func (s *OrderService) ListForUser(userID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForUser(userID, limit)
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*OrderDetail, error) {
	o, err := s.Repo.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "order not found", err)
	}
	return s.detail(o)
}

func (s *OrderService) Track(code string) (*OrderDetail, error) {
	o, err := s.Repo.GetOrderByTrackingCode(code)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "order not found", err)
	}
	return s.detail(o)
}

func (s *OrderService) detail(o *entity.Order) (*OrderDetail, error) {
	items, err := s.Repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	d := &OrderDetail{
		ID: o.ID, Subtotal: o.Subtotal, DeliveryFee: o.DeliveryFee, Tax: o.Tax, Total: o.Total,
		Currency: o.Currency, Status: o.Status, PaymentState: o.PaymentState, PaymentMethod: o.Method,
		TrackingCode: o.TrackingCode, RestaurantID: o.RestaurantID, DeliveryAddress: o.DeliveryAddress,
		Items: items,
	}
	if o.ActualDeliveryTime != nil {
		d.ActualDeliveryTime = *o.ActualDeliveryTime
	}
	return d, nil
}

type OwnerOrderListOut struct {
	Items []repository.OwnerOrderSummary `json:"items"`
	Total int64                          `json:"total"`
	Page  int                            `json:"page"`
	Limit int                            `json:"limit"`
}

func (s *OrderService) ListForRestaurant(userID, restID uint, role string, status *entity.OrderStatus, page, limit int) (*OwnerOrderListOut, error) {
	if err := s.authorizeOwner(userID, restID, role); err != nil {
		return nil, err
	}
	items, total, err := s.Repo.ListOrdersForRestaurant(restID, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &OwnerOrderListOut{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *OrderService) DetailForRestaurant(userID, restID, orderID uint, role string) (*OrderDetail, error) {
	if err := s.authorizeOwner(userID, restID, role); err != nil {
		return nil, err
	}
	o, err := s.Repo.GetOrderForRestaurant(restID, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "order not found", err)
	}
	return s.detail(o)
}

func (s *OrderService) authorizeOwner(userID, restID uint, role string) error {
	if role == entity.RoleAdmin {
		return nil
	}
	ok, err := s.RestRepo.IsOwnedBy(restID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.Forbidden, "not the restaurant owner")
	}
	return nil
}

func (s *OrderService) notifyOwner(restID uint, typ entity.NotificationType, title, msg string, data NotifData) {
	rest, err := s.RestRepo.Get(restID)
	if err != nil {
		s.Log.Errorw("owner lookup for notification failed", "restaurant", restID, "err", err)
		return
	}
	s.Notify.Emit(rest.OwnerID, typ, title, msg, data)
}
