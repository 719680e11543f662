package entity

// PaymentStatus tracks the lifecycle of a Payment record against the gateway.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "Pending"
	PaymentProcessing        PaymentStatus = "Processing"
	PaymentCompleted         PaymentStatus = "Completed"
	PaymentFailed            PaymentStatus = "Failed"
	PaymentRefunded          PaymentStatus = "Refunded"
	PaymentPartiallyRefunded PaymentStatus = "Partially_Refunded"
)

// Actionable means the record can still move toward Completed; only the
// latest actionable payment per order may be confirmed.
func (s PaymentStatus) Actionable() bool {
	return s == PaymentPending || s == PaymentProcessing
}

// PaymentState is the order-side summary of where money stands.
type PaymentState string

const (
	PayStatePending  PaymentState = "Pending"
	PayStatePaid     PaymentState = "Paid"
	PayStateFailed   PaymentState = "Failed"
	PayStateRefunded PaymentState = "Refunded"
)

// PaymentMethod is how the customer chose to pay.
type PaymentMethod string

const (
	MethodCard           PaymentMethod = "card"
	MethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodCard || m == MethodCashOnDelivery
}
