package apperr

import "errors"

// Kind is a stable machine-readable error category. Clients switch on the
// kind, never on message text.
type Kind string

const (
	Validation             Kind = "validation"
	Unauthorized           Kind = "unauthorized"
	Forbidden              Kind = "forbidden"
	NotFound               Kind = "not_found"
	Conflict               Kind = "conflict"
	EmptyCart              Kind = "empty_cart"
	CrossRestaurant        Kind = "cross_restaurant"
	InvalidStatusTransition Kind = "invalid_status_transition"
	ConcurrentModification Kind = "concurrent_modification"
	DuplicateReview        Kind = "duplicate_review"
	NotEligible            Kind = "not_eligible"
	AlreadyPaid            Kind = "already_paid"
	RefundExceedsAmount    Kind = "refund_exceeds_amount"
	GatewayDeclined        Kind = "gateway_declined"
	GatewayUnavailable     Kind = "gateway_unavailable"
	Internal               Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the kind from err, falling back to Internal for plain
// errors coming out of gorm or the net stack.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
