package booking

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelbooking/internal/flight"
	"travelbooking/pkg/cache"
	"travelbooking/pkg/events"
	"travelbooking/pkg/gds"
	"travelbooking/pkg/logger"
	"travelbooking/pkg/mailer"
	"travelbooking/pkg/payment"
)

type mockPricer struct {
	mock.Mock
}

func (m *mockPricer) ConfirmPricing(ctx context.Context, selected gds.FlightOffer) (*flight.PricingResponse, error) {
	args := m.Called(ctx, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flight.PricingResponse), args.Error(1)
}

func (m *mockPricer) LoadQuote(ctx context.Context, id string) (*flight.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flight.Quote), args.Error(1)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) CreateOrder(ctx context.Context, offer gds.FlightOffer, travelers []gds.Traveler, contacts []gds.Contact) (*gds.Order, error) {
	args := m.Called(ctx, offer, travelers, contacts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gds.Order), args.Error(1)
}

// fakePayments reports every session as paid unless status is set.
type fakePayments struct {
	mu       sync.Mutex
	requests []payment.SessionRequest
	err      error
	status   string
	lookups  []string
}

func (f *fakePayments) CreateCheckoutSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Session{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

func (f *fakePayments) GetCheckoutSession(_ context.Context, id string) (*payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, id)
	status := f.status
	if status == "" {
		status = "paid"
	}
	return &payment.Session{ID: id, URL: "https://checkout.test/" + id, PaymentStatus: status}, nil
}

func (f *fakePayments) setStatus(status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakePayments) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Confirmation
	err  error
}

func (f *fakeMailer) SendBookingConfirmation(_ context.Context, c mailer.Confirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, c)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// memRepo is an in-memory Repository. insertErrs are returned by successive
// Insert calls before any real insert happens.
type memRepo struct {
	mu         sync.Mutex
	bookings   []Booking
	insertErrs []error
	inserts    int
}

func (r *memRepo) Insert(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range r.bookings {
		if existing.AttemptID == b.AttemptID {
			return fmt.Errorf("%w: %s", ErrAlreadyPersisted, b.AttemptID)
		}
		if existing.TransactionID == b.TransactionID {
			return fmt.Errorf("%w: %s", ErrDuplicateTransactionID, b.TransactionID)
		}
	}
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *memRepo) FindByAttempt(_ context.Context, attemptID string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.AttemptID == attemptID {
			found := b
			return &found, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (r *memRepo) ListByUser(_ context.Context, userID string) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Booking{}
	for i := len(r.bookings) - 1; i >= 0; i-- {
		if r.bookings[i].User.ID == userID {
			out = append(out, r.bookings[i])
		}
	}
	return out, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int64
}

func (s *sequenceIDs) GenerateID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type fixture struct {
	orchestrator *Orchestrator
	store        *AttemptStore
	pricer       *mockPricer
	orders       *mockOrders
	payments     *fakePayments
	mailer       *fakeMailer
	events       *recordingPublisher
	repo         *memRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    NewAttemptStore(cache.NewMemoryCache(), time.Hour, 10*time.Minute),
		pricer:   new(mockPricer),
		orders:   new(mockOrders),
		payments: &fakePayments{},
		mailer:   &fakeMailer{},
		events:   &recordingPublisher{},
		repo:     &memRepo{},
	}
	f.orchestrator = NewOrchestrator(Dependencies{
		Pricer:     f.pricer,
		Orders:     f.orders,
		Payments:   f.payments,
		Mailer:     f.mailer,
		Events:     f.events,
		Repository: f.repo,
		Store:      f.store,
		IDs:        &sequenceIDs{},
		Logger:     logger.NewWithWriter("test", io.Discard),
	}, Options{
		FrontendURL:     "https://app.test/",
		PaymentCurrency: "MUR",
	})
	return f
}

// useCache swaps the attempt store onto c.
func (f *fixture) useCache(c cache.Cache) {
	f.store = NewAttemptStore(c, time.Hour, 10*time.Minute)
	f.orchestrator.store = f.store
}

var testUser = User{ID: "user-1", Name: "Jane Doe", Email: "jane@example.com"}

func testOffer() gds.FlightOffer {
	return gds.FlightOffer{
		Type:   "flight-offer",
		ID:     "1",
		Source: "GDS",
		Itineraries: []gds.Itinerary{{
			Duration: "PT7H",
			Segments: []gds.Segment{{
				ID:          "1",
				Departure:   gds.Endpoint{IataCode: "LHR", At: "2024-06-01T10:00:00"},
				Arrival:     gds.Endpoint{IataCode: "JFK", At: "2024-06-01T13:00:00"},
				CarrierCode: "BA",
				Number:      "117",
				Aircraft:    gds.Aircraft{Code: "744"},
				Duration:    "PT7H",
			}},
		}},
		Price: gds.Price{Currency: "EUR", Total: "300.00", Base: "250.00", GrandTotal: "300.00"},
	}
}

func testTravelers() []gds.Traveler {
	return []gds.Traveler{{
		ID:          "1",
		DateOfBirth: "1990-01-01",
		Name:        gds.TravelerName{FirstName: "JANE", LastName: "DOE"},
		Gender:      "FEMALE",
		Contact: gds.TravelerContact{
			EmailAddress: "jane@example.com",
			Phones:       []gds.Phone{{DeviceType: "MOBILE", CountryCallingCode: "44", Number: "7700900123"}},
		},
	}}
}

func testContact() gds.Contact {
	return gds.Contact{
		AddresseeName: gds.ContactName{FirstName: "Jane", LastName: "Doe"},
		Purpose:       "STANDARD",
		Phones:        []gds.Phone{{DeviceType: "MOBILE", CountryCallingCode: "44", Number: "7700900123"}},
		EmailAddress:  "jane@example.com",
		Address: gds.Address{
			Lines:       gds.AddressLines{"123 Main St"},
			PostalCode:  "SW1A 1AA",
			CityName:    "London",
			CountryCode: "GB",
		},
	}
}

func testQuote() *flight.Quote {
	return &flight.Quote{ID: "quote-1", Offer: testOffer()}
}

func testOrder() *gds.Order {
	return &gds.Order{
		Type:              "flight-order",
		ID:                "eJzTd9f3NjIJ",
		AssociatedRecords: []gds.AssociatedRecord{{Reference: "QVLWMD", FlightOfferID: "1"}},
	}
}

// redirected walks a fresh attempt up to PAYMENT_REDIRECTED.
func (f *fixture) redirected(t *testing.T) *Attempt {
	t.Helper()
	ctx := context.Background()

	f.pricer.On("LoadQuote", mock.Anything, "quote-1").Return(testQuote(), nil).Maybe()

	a, err := f.orchestrator.Begin(ctx, testUser, BeginRequest{QuoteID: "quote-1"})
	require.NoError(t, err)
	_, err = f.orchestrator.SubmitTravelers(ctx, testUser, a.ID, testTravelers())
	require.NoError(t, err)
	_, err = f.orchestrator.SubmitContact(ctx, testUser, a.ID, testContact())
	require.NoError(t, err)
	a, err = f.orchestrator.StartPayment(ctx, testUser, a.ID, 15999.50)
	require.NoError(t, err)
	require.Equal(t, StatePaymentRedirected, a.State)
	return a
}
