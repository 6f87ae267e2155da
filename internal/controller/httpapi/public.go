package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/counselbook/reserve/internal/service"
)

type createBookingRequest struct {
	Token  string  `json:"token" binding:"required"`
	SlotID string  `json:"slotId" binding:"required"`
	Email  string  `json:"email" binding:"required"`
	Name   string  `json:"name" binding:"required"`
	Phone  *string `json:"phone"`
}

// GetReservePage verifies the link and lists the counselor's bookable slots.
// Verification is read-only, so the page may be loaded any number of times
// before the final booking.
func (h *Handler) GetReservePage(c *gin.Context) {
	var date *string
	if d := c.Query("date"); d != "" {
		date = &d
	}

	page, err := h.reserve.GetPage(c.Request.Context(), c.Query("token"), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counselor": gin.H{"id": page.CounselorID.String()},
		"slots":     newSlotViews(page.Slots),
	})
}

// CreateBooking consumes the link token and reserves a seat on the slot.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		respondBadRequest(c, "slotId must be a valid uuid")
		return
	}

	booking, err := h.bookings.Book(c.Request.Context(), service.BookInput{
		Token:  req.Token,
		SlotID: slotID,
		Email:  req.Email,
		Name:   req.Name,
		Phone:  req.Phone,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "booking confirmed",
		"bookingId": booking.ID.String(),
	})
}
