package payment

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/logger"
)

type fakeSessions struct {
	got     *stripe.CheckoutSessionParams
	err     error
	gotID   string
	session *stripe.CheckoutSession
}

func (f *fakeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/c/pay/cs_test_1"}, nil
}

func (f *fakeSessions) Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.gotID = id
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func testGateway(f *fakeSessions) *StripeGateway {
	return &StripeGateway{sessions: f, logger: logger.NewWithWriter("test", io.Discard)}
}

func TestCreateCheckoutSession(t *testing.T) {
	f := &fakeSessions{}
	g := testGateway(f)

	s, err := g.CreateCheckoutSession(context.Background(), SessionRequest{
		ReferenceID:   "att-1",
		CustomerEmail: "jane@example.com",
		Amount:        15999.5,
		Currency:      "MUR",
		SuccessURL:    "https://app.test/booking/success?attemptId=att-1",
		CancelURL:     "https://app.test/booking/cancel?attemptId=att-1",
		Metadata:      map[string]string{"attempt_id": "att-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/c/pay/cs_test_1", s.URL)

	p := f.got
	require.NotNil(t, p)
	assert.Equal(t, "payment", *p.Mode)
	assert.Equal(t, "jane@example.com", *p.CustomerEmail)
	assert.Equal(t, "att-1", *p.ClientReferenceID)
	require.Len(t, p.LineItems, 1)
	assert.Equal(t, int64(1599950), *p.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "mur", *p.LineItems[0].PriceData.Currency)
	assert.Equal(t, int64(1), *p.LineItems[0].Quantity)
	assert.Equal(t, "att-1", p.Metadata["attempt_id"])
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	t.Run("non-positive amount never calls provider", func(t *testing.T) {
		f := &fakeSessions{}
		_, err := testGateway(f).CreateCheckoutSession(context.Background(), SessionRequest{Amount: 0, Currency: "MUR"})
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		assert.Nil(t, f.got)
	})

	t.Run("provider failure", func(t *testing.T) {
		f := &fakeSessions{err: errors.New("card_declined")}
		_, err := testGateway(f).CreateCheckoutSession(context.Background(), SessionRequest{Amount: 10, Currency: "MUR"})
		assert.True(t, apperror.HasCode(err, apperror.CodeUpstream))
	})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(123457), MinorUnits(1234.565))
	assert.Equal(t, int64(100), MinorUnits(1))
	assert.Equal(t, int64(1), MinorUnits(0.005))
}

func TestURLWithReference(t *testing.T) {
	assert.Equal(t, "https://a.test/s?attemptId=x", URLWithReference("https://a.test/s", "x"))
	assert.Equal(t, "https://a.test/s?tab=1&attemptId=x", URLWithReference("https://a.test/s?tab=1", "x"))
	assert.Equal(t, "https://a.test/s", URLWithReference("https://a.test/s", ""))
}

func TestGetCheckoutSession(t *testing.T) {
	tests := []struct {
		name   string
		status stripe.CheckoutSessionPaymentStatus
		paid   bool
	}{
		{"paid", stripe.CheckoutSessionPaymentStatusPaid, true},
		{"no payment required", stripe.CheckoutSessionPaymentStatusNoPaymentRequired, true},
		{"unpaid", stripe.CheckoutSessionPaymentStatusUnpaid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSessions{session: &stripe.CheckoutSession{ID: "cs_test_1", PaymentStatus: tt.status}}
			ctx := context.Background()

			s, err := testGateway(f).GetCheckoutSession(ctx, "cs_test_1")
			require.NoError(t, err)
			assert.Equal(t, "cs_test_1", f.gotID)
			assert.Equal(t, ctx, f.got.Context)
			assert.Equal(t, tt.paid, s.Paid())
		})
	}
}

func TestGetCheckoutSession_Errors(t *testing.T) {
	t.Run("missing id never calls provider", func(t *testing.T) {
		f := &fakeSessions{}
		_, err := testGateway(f).GetCheckoutSession(context.Background(), "")
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		assert.Empty(t, f.gotID)
	})

	t.Run("provider failure", func(t *testing.T) {
		f := &fakeSessions{err: errors.New("resource_missing")}
		_, err := testGateway(f).GetCheckoutSession(context.Background(), "cs_test_1")
		assert.True(t, apperror.HasCode(err, apperror.CodeUpstream))
	})
}
