package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"
)

// GatewayIntent is the processor's view of a payment intent. Status values
// follow the processor's vocabulary; the service maps them onto PaymentStatus.
type GatewayIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"` // processing | succeeded | requires_payment_method | canceled
	ChargeID     string `json:"latest_charge"`
	ReceiptURL   string `json:"receipt_url"`
	ErrorMessage string `json:"last_payment_error,omitempty"`
}

type GatewayRefund struct {
	ID     string `json:"id"`
	Status string `json:"status"` // succeeded | pending | failed
}

const (
	IntentSucceeded  = "succeeded"
	IntentProcessing = "processing"
)

// PaymentGateway is the external processor boundary. Amounts cross it in
// minor units (paisa); everywhere else in the system they are whole PKR.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*GatewayIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*GatewayIntent, error)
	CreateRefund(ctx context.Context, chargeID string, amountMinor int64) (*GatewayRefund, error)
}

// httpGateway talks to a Stripe-style REST API with form-encoded requests.
type httpGateway struct {
	baseURL string
	key     string
	client  *http.Client
}

func NewHTTPGateway(baseURL, key string, timeout time.Duration) PaymentGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *httpGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*GatewayIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", strings.ToLower(currency))
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	var out GatewayIntent
	if err := g.do(ctx, http.MethodPost, "/v1/payment_intents", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *httpGateway) RetrieveIntent(ctx context.Context, id string) (*GatewayIntent, error) {
	var out GatewayIntent
	if err := g.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *httpGateway) CreateRefund(ctx context.Context, chargeID string, amountMinor int64) (*GatewayRefund, error) {
	form := url.Values{}
	form.Set("charge", chargeID)
	form.Set("amount", strconv.FormatInt(amountMinor, 10))

	var out GatewayRefund
	if err := g.do(ctx, http.MethodPost, "/v1/refunds", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *httpGateway) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.key)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := g.client.Do(req)
	if err != nil {
		// A timeout does not mean the money did not move. Surface it as
		// unavailable so the caller retries confirmation later.
		if isTimeout(err) {
			return apperr.Wrap(apperr.GatewayUnavailable, "payment gateway timeout", err)
		}
		return apperr.Wrap(apperr.GatewayUnavailable, "payment gateway unreachable", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return apperr.New(apperr.GatewayUnavailable, fmt.Sprintf("payment gateway error: %d", res.StatusCode))
	}
	if res.StatusCode >= 400 {
		var ge struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&ge)
		msg := ge.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("payment gateway declined: %d", res.StatusCode)
		}
		return apperr.New(apperr.GatewayDeclined, msg)
	}

	return json.NewDecoder(res.Body).Decode(out)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
