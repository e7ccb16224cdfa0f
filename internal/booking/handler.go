package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/auth"
	"travelbooking/pkg/gds"
)

const idempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	orchestrator *Orchestrator
}

func NewBookingHandler(o *Orchestrator) *BookingHandler {
	return &BookingHandler{orchestrator: o}
}

// RegisterRoutes mounts the booking API. Every route requires authn.
func (h *BookingHandler) RegisterRoutes(router gin.IRouter, authn gin.HandlerFunc) {
	g := router.Group("/flight", authn)
	g.POST("/pay", h.PayHandler)
	g.POST("/book", h.BookHandler)
	g.GET("/bookings/user/:userId", h.ListBookingsHandler)

	a := g.Group("/bookings/attempts")
	a.POST("", h.BeginHandler)
	a.GET("/:id", h.GetAttemptHandler)
	a.PUT("/:id/travelers", h.SubmitTravelersHandler)
	a.PUT("/:id/contact", h.SubmitContactHandler)
	a.POST("/:id/payment", h.StartPaymentHandler)
	a.POST("/:id/confirm", h.ConfirmHandler)
	a.POST("/:id/cancel", h.CancelHandler)
}

func currentUser(c *gin.Context) (User, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		sendError(c, apperror.Unauthorized("authentication required"))
		return User{}, false
	}
	return User{ID: id.ID, Name: id.Name, Email: id.Email}, true
}

// PayHandler godoc
// @Summary      Create a hosted payment session
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PaySessionRequest true "Email and amount"
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Router       /flight/pay [post]
func (h *BookingHandler) PayHandler(c *gin.Context) {
	var req PaySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apperror.Validation("Invalid JSON body").WithDetail(err.Error()))
		return
	}

	session, err := h.orchestrator.CreatePaymentSession(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": session.URL})
}

// BookHandler godoc
// @Summary      Book a paid offer
// @Description  Retries with the same Idempotency-Key never issue a second order.
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Client generated key"
// @Param        request body BookRequest true "Offer, travelers and contacts"
// @Success      200 {object} BookResponse
// @Success      202 {object} BookResponse
// @Failure      400 {object} map[string]string
// @Failure      502 {object} map[string]string
// @Router       /flight/book [post]
func (h *BookingHandler) BookHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apperror.Validation("Invalid JSON body").WithDetail(err.Error()))
		return
	}

	a, err := h.orchestrator.BookDirect(c.Request.Context(), user, req, c.GetHeader(idempotencyHeader))
	if err != nil {
		sendAttemptError(c, a, err)
		return
	}
	c.JSON(http.StatusOK, BookResponse{
		Message:        "Booking confirmed",
		BookingDetails: a.Booking,
	})
}

// ListBookingsHandler godoc
// @Summary      List a user's bookings, newest first
// @Tags         booking
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User id"
// @Success      200 {array} Booking
// @Failure      403 {object} map[string]string
// @Router       /flight/bookings/user/{userId} [get]
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	bookings, err := h.orchestrator.ListBookings(c.Request.Context(), user, c.Param("userId"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// BeginHandler godoc
// @Summary      Start a booking attempt from a quote or an offer
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BeginRequest true "quoteId or flightOffer"
// @Success      201 {object} Attempt
// @Failure      409 {object} map[string]string
// @Router       /flight/bookings/attempts [post]
func (h *BookingHandler) BeginHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req BeginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apperror.Validation("Invalid JSON body").WithDetail(err.Error()))
		return
	}

	a, err := h.orchestrator.Begin(c.Request.Context(), user, req)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// GetAttemptHandler godoc
// @Summary      Current state of a booking attempt
// @Tags         booking
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attempt id"
// @Success      200 {object} Attempt
// @Failure      404 {object} map[string]string
// @Router       /flight/bookings/attempts/{id} [get]
func (h *BookingHandler) GetAttemptHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	a, err := h.orchestrator.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// SubmitTravelersHandler godoc
// @Summary      Stage traveler details
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string           true "Attempt id"
// @Param        request body TravelersRequest true "Travelers"
// @Success      200 {object} Attempt
// @Failure      400 {object} map[string]string
// @Router       /flight/bookings/attempts/{id}/travelers [put]
func (h *BookingHandler) SubmitTravelersHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req TravelersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apperror.Validation("Invalid JSON body").WithDetail(err.Error()))
		return
	}

	a, err := h.orchestrator.SubmitTravelers(c.Request.Context(), user, c.Param("id"), req.Travelers)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// SubmitContactHandler godoc
// @Summary      Stage contact details
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string      true "Attempt id"
// @Param        request body gds.Contact true "Contact"
// @Success      200 {object} Attempt
// @Failure      400 {object} map[string]string
// @Failure      422 {object} map[string]string
// @Router       /flight/bookings/attempts/{id}/contact [put]
func (h *BookingHandler) SubmitContactHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var contact gds.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		sendError(c, apperror.Validation("Invalid JSON body").WithDetail(err.Error()))
		return
	}

	a, err := h.orchestrator.SubmitContact(c.Request.Context(), user, c.Param("id"), contact)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// StartPaymentHandler godoc
// @Summary      Open the hosted checkout for an attempt
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string         true "Attempt id"
// @Param        request body PaymentRequest true "Amount already converted to the payment currency"
// @Success      200 {object} map[string]interface{}
// @Failure      422 {object} map[string]string
// @Router       /flight/bookings/attempts/{id}/payment [post]
func (h *BookingHandler) StartPaymentHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apperror.Validation("Invalid JSON body").WithDetail(err.Error()))
		return
	}

	a, err := h.orchestrator.StartPayment(c.Request.Context(), user, c.Param("id"), req.AmountInMUR)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": a.Payment.URL, "attempt": a})
}

// ConfirmHandler godoc
// @Summary      Payment success callback
// @Tags         booking
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attempt id"
// @Success      200 {object} BookResponse
// @Success      202 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Failure      502 {object} map[string]interface{}
// @Router       /flight/bookings/attempts/{id}/confirm [post]
func (h *BookingHandler) ConfirmHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	a, err := h.orchestrator.ConfirmPayment(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		sendAttemptError(c, a, err)
		return
	}
	c.JSON(http.StatusOK, BookResponse{
		Message:        "Booking confirmed",
		BookingDetails: a.Booking,
		Attempt:        a,
	})
}

// CancelHandler godoc
// @Summary      Payment cancel callback
// @Tags         booking
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Attempt id"
// @Success      200 {object} Attempt
// @Router       /flight/bookings/attempts/{id}/cancel [post]
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	a, err := h.orchestrator.CancelPayment(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func sendError(c *gin.Context, err error) {
	apperror.Render(c, err)
}

// sendAttemptError renders err together with the attempt, so the client can
// tell "never attempted" from "rejected" and show a pending confirmation.
func sendAttemptError(c *gin.Context, a *Attempt, err error) {
	appErr, ok := apperror.As(err)
	if !ok || a == nil {
		sendError(c, err)
		return
	}
	body := gin.H{
		"error":     appErr.Message,
		"code":      appErr.Code,
		"attempted": appErr.Attempted,
		"attempt":   a,
	}
	if appErr.Detail != "" {
		body["details"] = appErr.Detail
	}
	c.JSON(appErr.Status, body)
}
