package booking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"travelbooking/internal/flight"
	"travelbooking/pkg/apperror"
	"travelbooking/pkg/events"
	"travelbooking/pkg/gds"
	"travelbooking/pkg/idgen"
	"travelbooking/pkg/logger"
	"travelbooking/pkg/mailer"
	"travelbooking/pkg/metrics"
	"travelbooking/pkg/payment"
	"travelbooking/pkg/validation"
)

const (
	defaultTransactionIDRetries = 5
	defaultMailTimeout          = 10 * time.Second
)

// Pricer confirms offers and hands back stored quotes.
type Pricer interface {
	ConfirmPricing(ctx context.Context, selected gds.FlightOffer) (*flight.PricingResponse, error)
	LoadQuote(ctx context.Context, id string) (*flight.Quote, error)
}

type OrderClient interface {
	CreateOrder(ctx context.Context, offer gds.FlightOffer, travelers []gds.Traveler, contacts []gds.Contact) (*gds.Order, error)
}

type Dependencies struct {
	Pricer        Pricer
	Orders        OrderClient
	Payments      payment.Gateway
	Mailer        mailer.Mailer
	Events        events.Publisher
	Repository    Repository
	Store         *AttemptStore
	IDs           idgen.Generator
	TransactionID idgen.TransactionIDFunc
	Logger        logger.Logger
	Metrics       *metrics.Metrics
}

type Options struct {
	FrontendURL           string
	PaymentCurrency       string
	MailTimeout           time.Duration
	TransactionIDAttempts int
}

// Orchestrator drives a booking attempt from a confirmed price to an issued
// and persisted order.
type Orchestrator struct {
	pricer   Pricer
	orders   OrderClient
	payments payment.Gateway
	mailer   mailer.Mailer
	events   events.Publisher
	repo     Repository
	store    *AttemptStore
	ids      idgen.Generator
	newTxnID idgen.TransactionIDFunc
	logger   logger.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	opts     Options
	now      func() time.Time
}

func NewOrchestrator(deps Dependencies, opts Options) *Orchestrator {
	if opts.MailTimeout <= 0 {
		opts.MailTimeout = defaultMailTimeout
	}
	if opts.TransactionIDAttempts <= 0 {
		opts.TransactionIDAttempts = defaultTransactionIDRetries
	}
	if opts.PaymentCurrency == "" {
		opts.PaymentCurrency = "MUR"
	}
	opts.FrontendURL = strings.TrimRight(opts.FrontendURL, "/")

	mail := deps.Mailer
	if mail == nil {
		mail = mailer.Noop{}
	}
	pub := deps.Events
	if pub == nil {
		pub = events.Noop{}
	}
	newTxnID := deps.TransactionID
	if newTxnID == nil {
		newTxnID = idgen.NewTransactionID
	}

	return &Orchestrator{
		pricer:   deps.Pricer,
		orders:   deps.Orders,
		payments: deps.Payments,
		mailer:   mail,
		events:   pub,
		repo:     deps.Repository,
		store:    deps.Store,
		ids:      deps.IDs,
		newTxnID: newTxnID,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		tracer:   otel.Tracer("travelbooking/internal/booking"),
		opts:     opts,
		now:      time.Now,
	}
}

// Begin opens an attempt for a confirmed offer. When only an offer is given
// it is confirmed first; a fare the provider refuses opens no attempt.
func (o *Orchestrator) Begin(ctx context.Context, user User, req BeginRequest) (*Attempt, error) {
	ctx, span := o.tracer.Start(ctx, "booking.Begin")
	defer span.End()

	offer, quoteID, err := o.confirmedOffer(ctx, req)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	now := o.now().UTC()
	a := &Attempt{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		User:           user,
		State:          StateCollectingTravelers,
		QuoteID:        quoteID,
		ConfirmedOffer: &offer,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	span.SetAttributes(attribute.String("booking.attempt_id", a.ID))

	if err := o.store.Save(ctx, a); err != nil {
		return nil, err
	}
	o.metrics.BookingTransition(string(a.State))
	o.logger.Info("booking attempt started",
		logger.Field{Key: "attempt_id", Value: a.ID},
		logger.Field{Key: "user_id", Value: user.ID},
		logger.Field{Key: "offer_id", Value: offer.ID},
	)
	return a, nil
}

func (o *Orchestrator) confirmedOffer(ctx context.Context, req BeginRequest) (gds.FlightOffer, string, error) {
	switch {
	case req.QuoteID != "":
		quote, err := o.pricer.LoadQuote(ctx, req.QuoteID)
		if err != nil {
			return gds.FlightOffer{}, "", err
		}
		return quote.Offer, quote.ID, nil
	case req.FlightOffer != nil:
		resp, err := o.pricer.ConfirmPricing(ctx, *req.FlightOffer)
		if err != nil {
			return gds.FlightOffer{}, "", err
		}
		if len(resp.Data.FlightOffers) == 0 {
			return gds.FlightOffer{}, "", apperror.Upstream("pricing returned no offer")
		}
		return resp.Data.FlightOffers[0], resp.QuoteID, nil
	default:
		return gds.FlightOffer{}, "", apperror.Validation("quoteId or flightOffer is required")
	}
}

// Get returns the attempt if it belongs to user.
func (o *Orchestrator) Get(ctx context.Context, user User, id string) (*Attempt, error) {
	return o.load(ctx, user, id)
}

func (o *Orchestrator) SubmitTravelers(ctx context.Context, user User, id string, travelers []gds.Traveler) (*Attempt, error) {
	if err := validation.Struct(TravelersRequest{Travelers: travelers}, "traveler details are incomplete"); err != nil {
		return nil, err
	}

	a, err := o.load(ctx, user, id)
	if err != nil {
		return nil, err
	}

	next := StateCollectingContact
	if len(a.Contacts) > 0 {
		next = StateAwaitingPayment
	}
	if err := o.transition(a, next); err != nil {
		return nil, err
	}
	a.Travelers = travelers
	return a, o.store.Save(ctx, a)
}

func (o *Orchestrator) SubmitContact(ctx context.Context, user User, id string, contact gds.Contact) (*Attempt, error) {
	if err := validation.Struct(contact, "contact details are incomplete"); err != nil {
		return nil, err
	}

	a, err := o.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if len(a.Travelers) == 0 {
		return nil, apperror.MissingData("traveler details must be submitted before contact details")
	}

	if err := o.transition(a, StateAwaitingPayment); err != nil {
		return nil, err
	}
	a.Contacts = []gds.Contact{contact}
	return a, o.store.Save(ctx, a)
}

// StartPayment opens a hosted checkout for the attempt. Required data is
// checked before the payment provider is contacted.
func (o *Orchestrator) StartPayment(ctx context.Context, user User, id string, amount float64) (*Attempt, error) {
	ctx, span := o.tracer.Start(ctx, "booking.StartPayment",
		trace.WithAttributes(attribute.String("booking.attempt_id", id)))
	defer span.End()

	if amount <= 0 {
		return nil, apperror.Validation("payment amount must be positive")
	}

	a, err := o.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	switch a.State {
	case StatePaymentRedirected, StateConfirmingOrder:
		return nil, apperror.InvalidState("payment is already in progress for this booking")
	}
	if a.State.Final() {
		return nil, apperror.InvalidState(fmt.Sprintf("booking attempt is already %s", a.State))
	}
	if err := requirePaymentData(a); err != nil {
		return nil, err
	}
	if !a.State.CanTransitionTo(StatePaymentRedirected) {
		return nil, apperror.InvalidState(fmt.Sprintf("cannot start payment from %s", a.State))
	}

	session, err := o.payments.CreateCheckoutSession(ctx, payment.SessionRequest{
		ReferenceID:   a.ID,
		CustomerEmail: a.Email(),
		Description:   "Flight " + routeSummary(*a.ConfirmedOffer),
		Amount:        amount,
		Currency:      o.opts.PaymentCurrency,
		SuccessURL:    payment.URLWithReference(o.opts.FrontendURL+"/booking/success", a.ID),
		CancelURL:     payment.URLWithReference(o.opts.FrontendURL+"/booking/cancel", a.ID),
		Metadata: map[string]string{
			"attempt_id": a.ID,
			"offer_id":   a.ConfirmedOffer.ID,
		},
	})
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	a.Payment = &PaymentInfo{
		SessionID: session.ID,
		URL:       session.URL,
		Amount:    amount,
		Currency:  o.opts.PaymentCurrency,
	}
	if err := o.transition(a, StatePaymentRedirected); err != nil {
		return nil, err
	}
	if err := o.store.Save(ctx, a); err != nil {
		return nil, err
	}
	o.logger.Info("payment session created",
		logger.Field{Key: "attempt_id", Value: a.ID},
		logger.Field{Key: "session_id", Value: session.ID},
	)
	return a, nil
}

func requirePaymentData(a *Attempt) error {
	if a.ConfirmedOffer == nil {
		return apperror.MissingData("a confirmed offer price is required before payment")
	}
	if price := flight.OfferPrice(*a.ConfirmedOffer); math.IsInf(price, 0) || price <= 0 {
		return apperror.MissingData("a confirmed offer price is required before payment")
	}
	if len(a.Travelers) == 0 {
		return apperror.MissingData("traveler details are required before payment")
	}
	if a.Email() == "" {
		return apperror.MissingData("a contact email is required before payment")
	}
	return nil
}

// CancelPayment records that the user backed out of the hosted checkout.
// Staged data is kept so payment can be started again.
func (o *Orchestrator) CancelPayment(ctx context.Context, user User, id string) (*Attempt, error) {
	a, err := o.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if a.State == StatePaymentCancelled {
		return a, nil
	}
	if err := o.transition(a, StatePaymentCancelled); err != nil {
		return nil, err
	}
	if err := o.store.Save(ctx, a); err != nil {
		return nil, err
	}
	o.logger.Info("payment cancelled", logger.Field{Key: "attempt_id", Value: a.ID})
	return a, nil
}

// ConfirmPayment handles the payment success callback. Only the first
// callback for an attempt creates an order; later ones get the attempt as it
// stands.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, user User, id string) (*Attempt, error) {
	ctx, span := o.tracer.Start(ctx, "booking.ConfirmPayment",
		trace.WithAttributes(attribute.String("booking.attempt_id", id)))
	defer span.End()

	a, err := o.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	switch {
	case a.State == StateConfirmingOrder:
		return a, apperror.DuplicateSubmission("booking confirmation is already in progress")
	case a.State.Final():
		return a, outcome(a)
	case a.State != StatePaymentRedirected:
		return nil, apperror.InvalidState(fmt.Sprintf("cannot confirm payment from %s", a.State))
	}

	if err := o.verifyPayment(ctx, a); err != nil {
		recordError(span, err)
		return nil, err
	}

	claimed, err := o.store.ClaimConfirmation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claimed {
		o.logger.Warn("duplicate payment confirmation", logger.Field{Key: "attempt_id", Value: id})
		if latest, err := o.store.Load(ctx, id); err == nil && latest.State.Final() {
			return latest, outcome(latest)
		}
		return a, apperror.DuplicateSubmission("booking confirmation is already in progress")
	}

	a, err = o.confirm(context.WithoutCancel(ctx), a)
	if err != nil {
		recordError(span, err)
	}
	return a, err
}

// confirm runs once per attempt. It is detached from the caller so an order
// that was issued is always followed by persistence.
func (o *Orchestrator) confirm(ctx context.Context, a *Attempt) (*Attempt, error) {
	if err := o.transition(a, StateConfirmingOrder); err != nil {
		return nil, o.releaseConfirmation(ctx, a, err)
	}
	if err := o.store.Save(ctx, a); err != nil {
		return nil, o.releaseConfirmation(ctx, a, err)
	}

	if missing := missingOrderData(a); missing != "" {
		return o.fail(ctx, a, apperror.MissingData(missing))
	}

	order, err := o.orders.CreateOrder(ctx, *a.ConfirmedOffer, a.Travelers, a.Contacts)
	if err != nil {
		return o.fail(ctx, a, err)
	}
	a.GDSOrderID = order.ID

	b, err := o.persist(ctx, a)
	if err != nil {
		return o.pending(ctx, a, err)
	}
	a.Booking = b

	o.sendConfirmation(ctx, a, b)
	o.publish(ctx, events.TypeBookingCompleted, a, b)

	if err := o.transition(a, StateCompleted); err != nil {
		return nil, err
	}
	a.teardown()
	o.saveFinal(ctx, a)

	o.logger.Info("booking completed",
		logger.Field{Key: "attempt_id", Value: a.ID},
		logger.Field{Key: "transaction_id", Value: b.TransactionID},
		logger.Field{Key: "gds_order_id", Value: b.GDSOrderID},
	)
	return a, nil
}

// verifyPayment checks with the payment provider that the checkout behind
// the attempt was paid. Direct bookings without a session are paid for
// outside this service.
func (o *Orchestrator) verifyPayment(ctx context.Context, a *Attempt) error {
	if a.Payment == nil || a.Payment.SessionID == "" {
		return nil
	}
	s, err := o.payments.GetCheckoutSession(ctx, a.Payment.SessionID)
	if err != nil {
		return err
	}
	if !s.Paid() {
		o.logger.Warn("payment confirmation for unpaid session",
			logger.Field{Key: "attempt_id", Value: a.ID},
			logger.Field{Key: "session_id", Value: a.Payment.SessionID},
			logger.Field{Key: "payment_status", Value: s.PaymentStatus},
		)
		return apperror.InvalidState("payment has not been completed")
	}
	a.Payment.Status = s.PaymentStatus
	return nil
}

// releaseConfirmation gives the confirmation token back when confirm stops
// before the order call, so the next callback can run it again.
func (o *Orchestrator) releaseConfirmation(ctx context.Context, a *Attempt, cause error) error {
	a.State = StatePaymentRedirected
	if err := o.store.ReleaseConfirmation(ctx, a.ID); err != nil {
		o.logger.Error("failed to release payment confirmation",
			logger.Field{Key: "attempt_id", Value: a.ID},
			logger.Field{Key: "err", Value: err},
		)
	}
	return cause
}

func missingOrderData(a *Attempt) string {
	switch {
	case a.ConfirmedOffer == nil:
		return "confirmed offer is missing"
	case len(a.Travelers) == 0:
		return "traveler details are missing"
	case a.Email() == "":
		return "contact details are missing"
	}
	return ""
}

func (o *Orchestrator) persist(ctx context.Context, a *Attempt) (*Booking, error) {
	now := o.now().UTC()
	offer := a.ConfirmedOffer
	b := &Booking{
		AttemptID:   a.ID,
		GDSOrderID:  a.GDSOrderID,
		User:        a.User,
		Itineraries: offer.Itineraries,
		Price: Price{
			Currency: offer.Price.Currency,
			Total:    priceTotal(offer.Price),
			Base:     offer.Price.Base,
		},
		IsPaid:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for i := 0; i < o.opts.TransactionIDAttempts; i++ {
		txnID, err := o.newTxnID()
		if err != nil {
			return nil, err
		}
		b.ID = o.ids.GenerateID()
		b.TransactionID = txnID

		err = o.repo.Insert(ctx, b)
		switch {
		case err == nil:
			return b, nil
		case errors.Is(err, ErrDuplicateTransactionID):
			o.logger.Warn("transaction id collision, regenerating",
				logger.Field{Key: "attempt_id", Value: a.ID},
				logger.Field{Key: "transaction_id", Value: txnID},
			)
		case errors.Is(err, ErrAlreadyPersisted):
			return o.repo.FindByAttempt(ctx, a.ID)
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("booking: no unique transaction id after %d attempts", o.opts.TransactionIDAttempts)
}

func priceTotal(p gds.Price) string {
	if p.GrandTotal != "" {
		return p.GrandTotal
	}
	return p.Total
}

// fail ends the attempt as FAILED. Failure.Attempted tells the user whether
// the provider was ever asked to issue the order.
func (o *Orchestrator) fail(ctx context.Context, a *Attempt, cause error) (*Attempt, error) {
	appErr, ok := apperror.As(cause)
	if !ok {
		appErr = apperror.Booking("booking could not be completed").WithErr(cause)
	}
	a.Failure = &Failure{
		Reason:    appErr.Message,
		Code:      string(appErr.Code),
		Detail:    appErr.Detail,
		Attempted: appErr.Attempted,
	}

	if err := o.transition(a, StateFailed); err != nil {
		return nil, err
	}
	o.publish(ctx, events.TypeBookingFailed, a, a.Failure)
	a.teardown()
	o.saveFinal(ctx, a)

	o.logger.Warn("booking failed",
		logger.Field{Key: "attempt_id", Value: a.ID},
		logger.Field{Key: "code", Value: appErr.Code},
		logger.Field{Key: "attempted", Value: appErr.Attempted},
		logger.Field{Key: "err", Value: cause},
	)
	return a, appErr
}

// pending records an order that the provider issued but that could not be
// saved locally. Staged data is kept for reconciliation.
func (o *Orchestrator) pending(ctx context.Context, a *Attempt, cause error) (*Attempt, error) {
	travelers := make([]string, 0, len(a.Travelers))
	for _, t := range a.Travelers {
		travelers = append(travelers, t.Name.FirstName+" "+t.Name.LastName)
	}
	o.logger.Error("booking issued but not persisted, manual reconciliation required",
		logger.Field{Key: "attempt_id", Value: a.ID},
		logger.Field{Key: "user_id", Value: a.UserID},
		logger.Field{Key: "user_email", Value: a.User.Email},
		logger.Field{Key: "contact_email", Value: a.Email()},
		logger.Field{Key: "gds_order_id", Value: a.GDSOrderID},
		logger.Field{Key: "offer_id", Value: a.ConfirmedOffer.ID},
		logger.Field{Key: "price", Value: priceTotal(a.ConfirmedOffer.Price) + " " + a.ConfirmedOffer.Price.Currency},
		logger.Field{Key: "travelers", Value: travelers},
		logger.Field{Key: "err", Value: cause},
	)

	if err := o.transition(a, StateConfirmationPending); err != nil {
		return nil, err
	}
	o.publish(ctx, events.TypeBookingReconciliationRequired, a, map[string]any{
		"gdsOrderId": a.GDSOrderID,
		"offer":      a.ConfirmedOffer,
		"travelers":  a.Travelers,
		"contacts":   a.Contacts,
		"error":      cause.Error(),
	})
	o.saveFinal(ctx, a)

	return a, apperror.Persistence("booking succeeded, confirmation pending").WithErr(cause)
}

func (o *Orchestrator) sendConfirmation(ctx context.Context, a *Attempt, b *Booking) {
	contact := a.Contacts[0]
	mailCtx, cancel := context.WithTimeout(ctx, o.opts.MailTimeout)
	defer cancel()

	err := o.mailer.SendBookingConfirmation(mailCtx, mailer.Confirmation{
		To:            contact.EmailAddress,
		Name:          strings.TrimSpace(contact.AddresseeName.FirstName + " " + contact.AddresseeName.LastName),
		TransactionID: b.TransactionID,
		OrderID:       b.GDSOrderID,
		Route:         routeSummary(*a.ConfirmedOffer),
		Departure:     firstDeparture(*a.ConfirmedOffer),
		Total:         b.Price.Total,
		Currency:      b.Price.Currency,
	})
	if err != nil {
		o.logger.Warn("confirmation email not sent",
			logger.Field{Key: "attempt_id", Value: a.ID},
			logger.Field{Key: "transaction_id", Value: b.TransactionID},
			logger.Field{Key: "err", Value: err},
		)
		return
	}
	a.ConfirmationSent = true
}

func (o *Orchestrator) publish(ctx context.Context, eventType string, a *Attempt, payload any) {
	e := events.Event{
		Type:       eventType,
		AttemptID:  a.ID,
		UserID:     a.UserID,
		OccurredAt: o.now().UTC(),
		Payload:    payload,
	}
	if a.Booking != nil {
		e.TransactionID = a.Booking.TransactionID
	}
	if err := o.events.Publish(ctx, e); err != nil {
		o.logger.Warn("failed to publish booking event",
			logger.Field{Key: "type", Value: eventType},
			logger.Field{Key: "attempt_id", Value: a.ID},
			logger.Field{Key: "err", Value: err},
		)
	}
}

// saveFinal stores a finished attempt. The outcome is already decided, so a
// failed write is only logged.
func (o *Orchestrator) saveFinal(ctx context.Context, a *Attempt) {
	if err := o.store.Save(ctx, a); err != nil {
		o.logger.Error("failed to save booking attempt",
			logger.Field{Key: "attempt_id", Value: a.ID},
			logger.Field{Key: "state", Value: a.State},
			logger.Field{Key: "err", Value: err},
		)
	}
}

// BookDirect books an offer whose payment the caller already collected.
// Requests with the same idempotency key map to the same attempt, so a retry
// never issues a second order.
func (o *Orchestrator) BookDirect(ctx context.Context, user User, req BookRequest, idempotencyKey string) (*Attempt, error) {
	if req.UserID != "" && req.UserID != user.ID {
		return nil, apperror.Forbidden("cannot book on behalf of another user")
	}
	if err := validation.Struct(req, "booking request is incomplete"); err != nil {
		return nil, err
	}
	if err := req.FlightOffer.Validate(); err != nil {
		return nil, apperror.Validation("flight offer is malformed").WithDetail(err.Error())
	}

	if idempotencyKey == "" {
		idempotencyKey = derivedIdempotencyKey(user.ID, req)
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(user.ID+":"+idempotencyKey)).String()

	_, err := o.store.Load(ctx, id)
	if apperror.HasCode(err, apperror.CodeNotFound) {
		offer := req.FlightOffer
		now := o.now().UTC()
		a := &Attempt{
			ID:             id,
			UserID:         user.ID,
			User:           user,
			State:          StatePaymentRedirected,
			ConfirmedOffer: &offer,
			Travelers:      req.TravelerInfo,
			Contacts:       req.Contacts,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if req.PaymentSessionID != "" {
			a.Payment = &PaymentInfo{SessionID: req.PaymentSessionID, Currency: o.opts.PaymentCurrency}
		}
		if err := o.store.Save(ctx, a); err != nil {
			return nil, err
		}
		o.metrics.BookingTransition(string(a.State))
	} else if err != nil {
		return nil, err
	}

	return o.ConfirmPayment(ctx, user, id)
}

func derivedIdempotencyKey(userID string, req BookRequest) string {
	names := make([]string, 0, len(req.TravelerInfo))
	for _, t := range req.TravelerInfo {
		names = append(names, t.Name.FirstName+"/"+t.Name.LastName+"/"+t.DateOfBirth)
	}
	raw, _ := json.Marshal([]any{userID, req.FlightOffer.ID, priceTotal(req.FlightOffer.Price), routeSummary(req.FlightOffer), names})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// CreatePaymentSession opens a standalone checkout, used by clients that
// stage booking data themselves.
func (o *Orchestrator) CreatePaymentSession(ctx context.Context, req PaySessionRequest) (*payment.Session, error) {
	if err := validation.Struct(req, "invalid payment request"); err != nil {
		return nil, err
	}
	return o.payments.CreateCheckoutSession(ctx, payment.SessionRequest{
		CustomerEmail: req.Email,
		Description:   "Flight booking",
		Amount:        req.AmountInMUR,
		Currency:      o.opts.PaymentCurrency,
		SuccessURL:    o.opts.FrontendURL + "/booking/success",
		CancelURL:     o.opts.FrontendURL + "/booking/cancel",
	})
}

// ListBookings returns the user's persisted bookings, newest first.
func (o *Orchestrator) ListBookings(ctx context.Context, user User, userID string) ([]Booking, error) {
	if userID != user.ID {
		return nil, apperror.Forbidden("cannot list bookings of another user")
	}
	return o.repo.ListByUser(ctx, userID)
}

func (o *Orchestrator) load(ctx context.Context, user User, id string) (*Attempt, error) {
	a, err := o.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != user.ID {
		return nil, apperror.Forbidden("booking attempt belongs to another user")
	}
	return a, nil
}

func (o *Orchestrator) transition(a *Attempt, next State) error {
	if !a.State.CanTransitionTo(next) {
		return apperror.InvalidState(fmt.Sprintf("cannot move booking attempt from %s to %s", a.State, next))
	}
	a.State = next
	a.UpdatedAt = o.now().UTC()
	o.metrics.BookingTransition(string(next))
	return nil
}

// outcome maps a finished attempt to the error its caller should see.
func outcome(a *Attempt) error {
	switch a.State {
	case StateFailed:
		if a.Failure == nil {
			return apperror.Booking("booking failed")
		}
		return apperror.New(apperror.Code(a.Failure.Code), a.Failure.Reason).
			WithDetail(a.Failure.Detail).
			WithAttempted(a.Failure.Attempted)
	case StateConfirmationPending:
		return apperror.Persistence("booking succeeded, confirmation pending")
	case StatePaymentCancelled:
		return apperror.PaymentCancelled("payment was cancelled")
	}
	return nil
}

func routeSummary(o gds.FlightOffer) string {
	legs := make([]string, 0, len(o.Itineraries))
	for _, it := range o.Itineraries {
		if len(it.Segments) == 0 {
			continue
		}
		from := it.Segments[0].Departure.IataCode
		to := it.Segments[len(it.Segments)-1].Arrival.IataCode
		legs = append(legs, from+" → "+to)
	}
	return strings.Join(legs, ", ")
}

func firstDeparture(o gds.FlightOffer) string {
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return ""
	}
	return strings.Replace(o.Itineraries[0].Segments[0].Departure.At, "T", " ", 1)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
