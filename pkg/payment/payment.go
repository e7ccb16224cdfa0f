// Package payment creates hosted checkout sessions. Card data never touches
// this service.
package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/logger"
)

type SessionRequest struct {
	ReferenceID   string
	CustomerEmail string
	Description   string
	Amount        float64 // major units, already converted by the caller
	Currency      string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// Paid reports whether the provider has captured the funds for the session.
func (s *Session) Paid() bool {
	switch stripe.CheckoutSessionPaymentStatus(s.PaymentStatus) {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return true
	}
	return false
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetCheckoutSession(ctx context.Context, id string) (*Session, error)
}

type checkoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeGateway struct {
	sessions checkoutSessions
	logger   logger.Logger
}

func NewStripeGateway(secretKey string, log logger.Logger) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{sessions: sc.CheckoutSessions, logger: log}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params, err := checkoutParams(req)
	if err != nil {
		return nil, err
	}
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		g.logger.Error("checkout session creation failed",
			logger.Field{Key: "reference_id", Value: req.ReferenceID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, apperror.Upstream("payment session could not be created").WithErr(err)
	}
	return &Session{ID: s.ID, URL: s.URL, PaymentStatus: string(s.PaymentStatus)}, nil
}

// GetCheckoutSession reads the session back from the provider, the only
// trustworthy source for whether it was paid.
func (g *StripeGateway) GetCheckoutSession(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, apperror.Validation("payment session id is required")
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sessions.Get(id, params)
	if err != nil {
		g.logger.Error("checkout session lookup failed",
			logger.Field{Key: "session_id", Value: id},
			logger.Field{Key: "error", Value: err},
		)
		return nil, apperror.Upstream("payment session could not be verified").WithErr(err)
	}
	return &Session{ID: s.ID, URL: s.URL, PaymentStatus: string(s.PaymentStatus)}, nil
}

func checkoutParams(req SessionRequest) (*stripe.CheckoutSessionParams, error) {
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, apperror.Validation("payment amount must be positive")
	}
	if req.Currency == "" {
		return nil, apperror.Validation("payment currency is required")
	}
	description := req.Description
	if description == "" {
		description = "Flight booking"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(strings.ToLower(req.Currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(description),
				},
				UnitAmount: stripe.Int64(MinorUnits(req.Amount)),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if req.ReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ReferenceID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params, nil
}

// MinorUnits converts 1234.565 to 123457.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// URLWithReference appends ref as the "attemptId" query parameter.
func URLWithReference(base, ref string) string {
	if ref == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sattemptId=%s", base, sep, ref)
}
