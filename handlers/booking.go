package handlers

import (
	"net/http"

	"astrodesk/models"
	"astrodesk/services/booking"
	"astrodesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	BookingSvc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingSvc: svc}
}

// CheckAvailabilityHandler handles GET /api/availability?date=YYYY-MM-DD.
func (h *BookingHandler) CheckAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, logger, utils.InvalidInput("Query parameter 'date' is required"))
		return
	}

	hours, err := h.BookingSvc.CheckAvailability(c.Request.Context(), date)
	if err != nil {
		utils.JSONError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, models.AvailabilityResponse{AvailableHours: hours})
}

// CreateBookingHandler handles POST /api/book.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c)
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, logger, utils.InvalidInput("Invalid booking request: "+err.Error()))
		return
	}

	conf, err := h.BookingSvc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, logger, err)
		return
	}

	logger.Info("Booking confirmed", zap.String("booking_id", conf.BookingID))
	c.JSON(http.StatusOK, models.StatusResponse{
		Status:  "success",
		Message: "Booking confirmed",
		ID:      conf.BookingID,
	})
}
