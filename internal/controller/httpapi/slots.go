package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/service"
)

type createSlotRequest struct {
	StartAt  string            `json:"startAt" binding:"required"`
	Capacity *int              `json:"capacity"`
	Status   *model.SlotStatus `json:"status"`
}

type updateSlotRequest struct {
	StartAt  *string           `json:"startAt"`
	Capacity *int              `json:"capacity"`
	Status   *model.SlotStatus `json:"status"`
}

// ListSlots returns the caller's slots. Admins may list another counselor's
// slots via ?counselorId=.
func (h *Handler) ListSlots(c *gin.Context) {
	ident := identityFrom(c)

	counselorID := ident.UserID
	if raw := c.Query("counselorId"); raw != "" && ident.IsAdmin() {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(c, "counselorId must be a valid uuid")
			return
		}
		counselorID = parsed
	}

	slots, err := h.slots.ListOwned(c.Request.Context(), counselorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": newSlotViews(slots)})
}

// GetSlot returns one slot by id.
func (h *Handler) GetSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "slot id must be a valid uuid")
		return
	}

	slot, err := h.slots.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newSlotView(slot))
}

// CreateSlot publishes a new 30-minute slot for the caller.
func (h *Handler) CreateSlot(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	slot, err := h.slots.Create(c.Request.Context(), identityFrom(c), service.CreateSlotInput{
		StartAt:  req.StartAt,
		Capacity: req.Capacity,
		Status:   req.Status,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, newSlotView(slot))
}

// UpdateSlot applies a partial patch to a slot.
func (h *Handler) UpdateSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "slot id must be a valid uuid")
		return
	}

	var req updateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	slot, err := h.slots.Update(c.Request.Context(), id, identityFrom(c), service.UpdateSlotInput{
		StartAt:  req.StartAt,
		Capacity: req.Capacity,
		Status:   req.Status,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newSlotView(slot))
}

// DeleteSlot removes a slot without live bookings.
func (h *Handler) DeleteSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "slot id must be a valid uuid")
		return
	}

	if err := h.slots.Delete(c.Request.Context(), id, identityFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "slot deleted"})
}
