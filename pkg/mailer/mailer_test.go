package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConfirmation(t *testing.T) {
	body, err := RenderConfirmation(Confirmation{
		Name:          "Jane Doe",
		TransactionID: "TXN-ABC123DEF456",
		OrderID:       "eJzTd9f3NjIJ",
		Route:         "LHR → JFK",
		Departure:     "2024-06-01 10:00",
		Total:         "300.00",
		Currency:      "EUR",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hello Jane Doe,")
	assert.Contains(t, body, "Transaction: TXN-ABC123DEF456")
	assert.Contains(t, body, "Booking reference: eJzTd9f3NjIJ")
	assert.Contains(t, body, "Route: LHR → JFK")
	assert.Contains(t, body, "Total paid: 300.00 EUR")
}

func TestRenderConfirmation_OptionalFields(t *testing.T) {
	body, err := RenderConfirmation(Confirmation{TransactionID: "TXN-000000000000", Route: "CDG → MRU", Total: "10", Currency: "EUR"})
	require.NoError(t, err)

	assert.Contains(t, body, "Hello traveler,")
	assert.NotContains(t, body, "Booking reference")
	assert.NotContains(t, body, "Departure")
}

func TestMessage(t *testing.T) {
	m := &SMTPMailer{from: "bookings@travel.test"}

	msg, err := m.message(Confirmation{To: "jane@example.com", TransactionID: "TXN-ABC123DEF456"})
	require.NoError(t, err)
	assert.NotNil(t, msg)

	_, err = m.message(Confirmation{To: "not-an-email", TransactionID: "TXN-ABC123DEF456"})
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.SendBookingConfirmation(context.Background(), Confirmation{}))
}
