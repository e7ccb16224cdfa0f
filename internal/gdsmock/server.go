// Package gdsmock serves canned provider responses on the same paths the gds
// client calls, for local runs without sandbox credentials.
package gdsmock

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"travelbooking/pkg/gds"
)

const (
	Token = "mock-access-token"

	// RejectLastName makes order creation fail with a segment sell error.
	RejectLastName = "REJECT"
	// UnavailableOfferID makes price confirmation answer as if the fare sold out.
	UnavailableOfferID = "sold-out"
	// FailingOrigin makes offer search answer with a provider error.
	FailingOrigin = "ERR"
)

type Options struct {
	// MinLatency and MaxLatency bound the random delay added to every call.
	MinLatency time.Duration
	MaxLatency time.Duration
}

type server struct {
	opts Options
}

func NewRouter(opts Options) *gin.Engine {
	s := &server{opts: opts}
	r := gin.New()
	r.Use(gin.Recovery(), s.latency)

	r.POST("/v1/security/oauth2/token", s.token)

	api := r.Group("", s.requireToken)
	api.GET("/v1/reference-data/locations", s.locations)
	api.GET("/v2/shopping/flight-offers", s.offers)
	api.POST("/v1/shopping/flight-offers/pricing", s.pricing)
	api.POST("/v1/booking/flight-orders", s.order)
	return r
}

func (s *server) latency(c *gin.Context) {
	if s.opts.MaxLatency > s.opts.MinLatency {
		spread := int64(s.opts.MaxLatency - s.opts.MinLatency)
		time.Sleep(s.opts.MinLatency + time.Duration(rand.Int63n(spread)))
	} else if s.opts.MinLatency > 0 {
		time.Sleep(s.opts.MinLatency)
	}
	c.Next()
}

func (s *server) token(c *gin.Context) {
	if c.PostForm("grant_type") != "client_credentials" || c.PostForm("client_id") == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":             "invalid_client",
			"error_description": "Client credentials are invalid",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"type":         "amadeusOAuth2Token",
		"access_token": Token,
		"token_type":   "Bearer",
		"expires_in":   1799,
		"state":        "approved",
	})
}

func (s *server) requireToken(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, 38190, "Invalid access token", "The access token provided in the Authorization header is invalid"))
		return
	}
	c.Next()
}

func (s *server) locations(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, 32171, "MANDATORY DATA MISSING", "keyword is required"))
		return
	}
	subTypes := strings.Split(c.DefaultQuery("subType", "CITY,AIRPORT"), ",")
	c.JSON(http.StatusOK, gin.H{"data": findLocations(keyword, subTypes)})
}

func (s *server) offers(c *gin.Context) {
	origin := strings.ToUpper(c.Query("originLocationCode"))
	if origin == FailingOrigin {
		c.JSON(http.StatusInternalServerError, errorBody(http.StatusInternalServerError, 141, "SYSTEM ERROR HAS OCCURRED", "upstream inventory unavailable"))
		return
	}

	adults, err := strconv.Atoi(c.DefaultQuery("adults", "1"))
	if err != nil || adults < 1 {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, 477, "INVALID FORMAT", "adults must be a positive integer"))
		return
	}

	offers, dict, err := offersFor(origin, strings.ToUpper(c.Query("destinationLocationCode")),
		c.Query("departureDate"), c.DefaultQuery("currencyCode", "EUR"), adults)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, 477, "INVALID FORMAT", err.Error()))
		return
	}
	if limit, err := strconv.Atoi(c.Query("max")); err == nil && limit > 0 && len(offers) > limit {
		offers = offers[:limit]
	}

	c.JSON(http.StatusOK, gds.OfferBatch{
		Meta:         gds.Meta{Count: len(offers)},
		Data:         offers,
		Dictionaries: dict,
	})
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type offersPayload struct {
	Type         string            `json:"type"`
	FlightOffers []gds.FlightOffer `json:"flightOffers"`
	Travelers    []gds.Traveler    `json:"travelers,omitempty"`
	Contacts     []gds.Contact     `json:"contacts,omitempty"`
}

func (s *server) pricing(c *gin.Context) {
	var req envelope[offersPayload]
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Data.FlightOffers) == 0 {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, 477, "INVALID FORMAT", "data.flightOffers is required"))
		return
	}

	offer := req.Data.FlightOffers[0]
	if offer.ID == UnavailableOfferID {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, 4926, "INVALID DATA RECEIVED", "No fare applicable"))
		return
	}
	if offer.Price.GrandTotal == "" {
		offer.Price.GrandTotal = offer.Price.Total
	}

	c.JSON(http.StatusOK, gds.PricedOffer{
		Data: gds.PricingData{
			Type:         "flight-offers-pricing",
			FlightOffers: []gds.FlightOffer{offer},
		},
	})
}

func (s *server) order(c *gin.Context) {
	var req envelope[offersPayload]
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Data.FlightOffers) == 0 {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, 477, "INVALID FORMAT", "data.flightOffers is required"))
		return
	}
	if len(req.Data.Travelers) == 0 {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, 32171, "MANDATORY DATA MISSING", "travelers is required"))
		return
	}
	for _, t := range req.Data.Travelers {
		if strings.EqualFold(t.Name.LastName, RejectLastName) {
			c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, 34651, "SEGMENT SELL FAILURE", "Could not sell segment 1"))
			return
		}
	}

	offer := req.Data.FlightOffers[0]
	c.JSON(http.StatusCreated, envelope[gds.Order]{Data: gds.Order{
		Type:            "flight-order",
		ID:              strings.ReplaceAll(uuid.NewString(), "-", ""),
		QueuingOfficeID: "NCE4D31SB",
		AssociatedRecords: []gds.AssociatedRecord{{
			Reference:        strings.ToUpper(uuid.NewString()[:6]),
			CreationDate:     time.Now().UTC().Format("2006-01-02T15:04:05.000"),
			OriginSystemCode: "GDS",
			FlightOfferID:    offer.ID,
		}},
		FlightOffers: []gds.FlightOffer{offer},
		Travelers:    req.Data.Travelers,
	}})
}

func errorBody(status, code int, title, detail string) gin.H {
	return gin.H{"errors": []gds.Issue{{
		Status: status,
		Code:   code,
		Title:  title,
		Detail: detail,
	}}}
}
