package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ecobid/pkg/logger"
)

// StripePaymentService talks to Stripe Checkout over its form-encoded HTTP
// API. Amounts are converted to cents on the wire.
type StripePaymentService struct {
	secretKey  string
	successURL string
	cancelURL  string
	baseURL    string
	client     *http.Client
}

func NewStripePaymentService(secretKey, successURL, cancelURL string) *StripePaymentService {
	return &StripePaymentService{
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		baseURL:    "https://api.stripe.com/v1",
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type stripeSessionResponse struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	PaymentStatus     string `json:"payment_status"`
	AmountTotal       int64  `json:"amount_total"`
	ClientReferenceID string `json:"client_reference_id"`
}

func (s *StripePaymentService) CreateSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error) {
	logger.Info("Creating Stripe checkout session for order %s, amount %.2f", req.OrderID, req.Amount)

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", s.successURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", s.cancelURL)
	form.Set("client_reference_id", req.OrderID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(int64(req.Amount*100), 10))
	form.Set("line_items[0][price_data][product_data][name]", req.ProductName)
	form.Set("metadata[listing_id]", req.OrderID)
	form.Set("metadata[buyer_id]", req.BuyerID)
	for key, value := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	body, err := s.do(ctx, http.MethodPost, s.baseURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	var session stripeSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	logger.Info("Stripe checkout session created: %s", session.ID)

	return &CheckoutSession{
		SessionID:   session.ID,
		RedirectURL: session.URL,
	}, nil
}

func (s *StripePaymentService) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	body, err := s.do(ctx, http.MethodGet, s.baseURL+"/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}

	var session stripeSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	logger.Debug("Stripe session %s payment_status=%s", sessionID, session.PaymentStatus)

	return &SessionStatus{
		Completed:  session.PaymentStatus == "paid",
		PaidAmount: float64(session.AmountTotal) / 100,
		OrderID:    session.ClientReferenceID,
	}, nil
}

func (s *StripePaymentService) do(ctx context.Context, method, endpoint string, payload io.Reader) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)
	if method == http.MethodPost {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("Stripe API error: %s", string(body))
		return nil, fmt.Errorf("stripe API error: %s", string(body))
	}

	return body, nil
}
