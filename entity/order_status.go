package entity

// OrderStatus is the closed set of order states. Transition legality lives in
// one table here; no call site compares raw strings.
type OrderStatus string

const (
	OrderPending        OrderStatus = "Pending"
	OrderConfirmed      OrderStatus = "Confirmed"
	OrderPreparing      OrderStatus = "Preparing"
	OrderReady          OrderStatus = "Ready"
	OrderOutForDelivery OrderStatus = "OutForDelivery"
	OrderDelivered      OrderStatus = "Delivered"
	OrderCancelled      OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderConfirmed, OrderCancelled},
	OrderConfirmed:      {OrderPreparing, OrderCancelled},
	OrderPreparing:      {OrderReady},
	OrderReady:          {OrderOutForDelivery},
	OrderOutForDelivery: {OrderDelivered},
	OrderDelivered:      {},
	OrderCancelled:      {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransition reports whether from → to is a legal move in the order
// lifecycle graph.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether a customer may still abort the order.
func (s OrderStatus) CanCancel() bool {
	return s == OrderPending || s == OrderConfirmed
}
