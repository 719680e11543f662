package resp

import (
	"net/http"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "kind": apperr.Validation, "error": msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "kind": apperr.Unauthorized, "error": msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "kind": apperr.Forbidden, "error": msg})
}

func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "kind": apperr.Internal, "error": err.Error()})
}

// Fail maps a service error to its HTTP status by kind. Every error body
// carries the stable kind so clients never parse message text.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.JSON(statusFor(kind), gin.H{"ok": false, "kind": kind, "error": err.Error()})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation, apperr.EmptyCart, apperr.RefundExceedsAmount:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict, apperr.CrossRestaurant, apperr.InvalidStatusTransition,
		apperr.ConcurrentModification, apperr.DuplicateReview, apperr.NotEligible,
		apperr.AlreadyPaid:
		return http.StatusConflict
	case apperr.GatewayDeclined:
		return http.StatusPaymentRequired
	case apperr.GatewayUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
