package flight

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelbooking/pkg/apperror"
)

type FlightHandler struct {
	service *Service
}

func NewFlightHandler(s *Service) *FlightHandler {
	return &FlightHandler{
		service: s,
	}
}

func (h *FlightHandler) RegisterRoutes(router gin.IRouter) {
	g := router.Group("/flight")
	g.GET("/locations", h.SearchLocationsHandler)
	g.GET("/airports", h.SearchAirportsHandler)
	g.GET("/flights", h.SearchFlightsHandler)
	g.POST("/pricing", h.ConfirmPricingHandler)
}

// SearchLocationsHandler godoc
// @Summary      City and airport autocomplete
// @Tags         flights
// @Produce      json
// @Param        keyword query string true "Partial name or IATA code"
// @Success      200 {array} gds.Location
// @Failure      400 {object} map[string]string
// @Failure      502 {object} map[string]string
// @Router       /flight/locations [get]
func (h *FlightHandler) SearchLocationsHandler(c *gin.Context) {
	locs, err := h.service.SearchLocations(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, locs)
}

// SearchAirportsHandler godoc
// @Summary      Airport lookup
// @Tags         flights
// @Produce      json
// @Param        keyword query string true "Partial name or IATA code"
// @Success      200 {array} gds.Location
// @Failure      400 {object} map[string]string
// @Router       /flight/airports [get]
func (h *FlightHandler) SearchAirportsHandler(c *gin.Context) {
	locs, err := h.service.SearchAirports(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, locs)
}

// SearchFlightsHandler godoc
// @Summary      Search flight offers
// @Description  Offers are classified (Cheapest/Fastest/Normal) across the full batch, enriched, then filtered and sorted.
// @Tags         flights
// @Produce      json
// @Param        originLocationCode      query string true  "IATA origin"
// @Param        destinationLocationCode query string true  "IATA destination"
// @Param        departureDate           query string true  "YYYY-MM-DD"
// @Param        adults                  query int    true  "Adult passengers"
// @Param        returnDate              query string false "YYYY-MM-DD"
// @Param        maxPrice                query number false "Upper price bound"
// @Param        maxStops                query int    false "Maximum connections"
// @Param        maxDuration             query int    false "Maximum total minutes"
// @Param        airlines                query string false "Comma separated carrier codes"
// @Param        sortBy                  query string false "price, duration, departure_time, best_value"
// @Param        order                   query string false "asc or desc"
// @Success      200 {object} SearchResponse
// @Failure      400 {object} map[string]string
// @Failure      502 {object} map[string]string
// @Router       /flight/flights [get]
func (h *FlightHandler) SearchFlightsHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		sendError(c, apperror.Validation("invalid search parameters").WithDetail(err.Error()))
		return
	}

	response, err := h.service.SearchFlights(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ConfirmPricingHandler godoc
// @Summary      Confirm the price of one selected offer
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body PricingRequest true "Exactly one offer"
// @Success      200 {object} PricingResponse
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /flight/pricing [post]
func (h *FlightHandler) ConfirmPricingHandler(c *gin.Context) {
	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apperror.Validation("Invalid JSON body").WithDetail(err.Error()))
		return
	}
	if len(req.FlightOffers) != 1 {
		sendError(c, apperror.Validation("exactly one flight offer must be priced"))
		return
	}

	response, err := h.service.ConfirmPricing(c.Request.Context(), req.FlightOffers[0])
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func sendError(c *gin.Context, err error) {
	apperror.Render(c, err)
}
