package booking

import (
	"time"

	"travelbooking/pkg/gds"
)

type State string

const (
	StateCollectingTravelers State = "COLLECTING_TRAVELERS"
	StateCollectingContact   State = "COLLECTING_CONTACT"
	StateAwaitingPayment     State = "AWAITING_PAYMENT"
	StatePaymentRedirected   State = "PAYMENT_REDIRECTED"
	StatePaymentCancelled    State = "PAYMENT_CANCELLED"
	StateConfirmingOrder     State = "CONFIRMING_ORDER"
	StateCompleted           State = "COMPLETED"
	StateFailed              State = "FAILED"
	// StateConfirmationPending means the provider issued the order but the
	// local record could not be saved. Resolved by manual reconciliation.
	StateConfirmationPending State = "CONFIRMATION_PENDING"
)

var transitions = map[State][]State{
	StateCollectingTravelers: {StateCollectingContact, StateAwaitingPayment},
	StateCollectingContact:   {StateCollectingContact, StateAwaitingPayment},
	StateAwaitingPayment:     {StateCollectingContact, StateAwaitingPayment, StatePaymentRedirected},
	StatePaymentRedirected:   {StateConfirmingOrder, StatePaymentCancelled},
	StatePaymentCancelled:    {StatePaymentRedirected},
	StateConfirmingOrder:     {StateCompleted, StateFailed, StateConfirmationPending},
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Final reports whether no further transition is possible.
func (s State) Final() bool {
	return len(transitions[s]) == 0
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type PaymentInfo struct {
	SessionID string  `json:"sessionId"`
	URL       string  `json:"url"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status,omitempty"`
}

// Failure explains a FAILED attempt. Attempted is false when the order was
// never sent to the provider.
type Failure struct {
	Reason    string `json:"reason"`
	Code      string `json:"code"`
	Detail    string `json:"detail,omitempty"`
	Attempted bool   `json:"attempted"`
}

// Attempt is the staged state of one checkout, from pricing to order.
type Attempt struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	User             User             `json:"user"`
	State            State            `json:"state"`
	QuoteID          string           `json:"quoteId,omitempty"`
	ConfirmedOffer   *gds.FlightOffer `json:"confirmedOffer,omitempty"`
	Travelers        []gds.Traveler   `json:"travelers,omitempty"`
	Contacts         []gds.Contact    `json:"contacts,omitempty"`
	Payment          *PaymentInfo     `json:"payment,omitempty"`
	GDSOrderID       string           `json:"gdsOrderId,omitempty"`
	Booking          *Booking         `json:"booking,omitempty"`
	Failure          *Failure         `json:"failure,omitempty"`
	ConfirmationSent bool             `json:"confirmationSent,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Email is the primary contact address, empty until contact details arrive.
func (a *Attempt) Email() string {
	if len(a.Contacts) == 0 {
		return ""
	}
	return a.Contacts[0].EmailAddress
}

// teardown drops staged passenger data once the attempt can no longer use it.
func (a *Attempt) teardown() {
	a.ConfirmedOffer = nil
	a.Travelers = nil
	a.Contacts = nil
}

type Price struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
	Base     string `json:"base"`
}

type Booking struct {
	ID            int64           `json:"id,string"`
	TransactionID string          `json:"transactionId"`
	AttemptID     string          `json:"attemptId"`
	GDSOrderID    string          `json:"gdsOrderId"`
	User          User            `json:"user"`
	Itineraries   []gds.Itinerary `json:"itineraries"`
	Price         Price           `json:"price"`
	IsPaid        bool            `json:"isPaid"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BeginRequest starts an attempt from a stored quote or a selected offer
// that still needs pricing confirmation.
type BeginRequest struct {
	QuoteID     string           `json:"quoteId"`
	FlightOffer *gds.FlightOffer `json:"flightOffer"`
}

type TravelersRequest struct {
	Travelers []gds.Traveler `json:"travelers" validate:"required,min=1,dive"`
}

type PaymentRequest struct {
	AmountInMUR float64 `json:"amountInMUR" validate:"gt=0"`
}

// PaySessionRequest is the body of POST /flight/pay.
type PaySessionRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	AmountInMUR float64 `json:"amountInMUR" validate:"gt=0"`
}

// BookRequest is the body of POST /flight/book. Payment has already been
// taken by the caller.
type BookRequest struct {
	FlightOffer  gds.FlightOffer `json:"flightOffer"`
	TravelerInfo []gds.Traveler  `json:"travelerInfo" validate:"required,min=1,dive"`
	Contacts     []gds.Contact   `json:"contacts" validate:"required,min=1,dive"`
	UserID       string          `json:"userId"`

	// PaymentSessionID, when set, is checked with the payment provider
	// before the order is placed.
	PaymentSessionID string `json:"paymentSessionId,omitempty"`
}

type BookResponse struct {
	Message        string   `json:"message"`
	BookingDetails *Booking `json:"bookingDetails"`
	Attempt        *Attempt `json:"attempt,omitempty"`
}
