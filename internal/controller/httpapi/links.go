package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createLinkRequest struct {
	CounselorID    *string `json:"counselorId"`
	ExpiresInHours *int    `json:"expiresInHours"`
}

// CreateLink mints a single-use reservation link for the target counselor.
func (h *Handler) CreateLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	var counselorID *uuid.UUID
	if req.CounselorID != nil {
		parsed, err := uuid.Parse(*req.CounselorID)
		if err != nil {
			respondBadRequest(c, "counselorId must be a valid uuid")
			return
		}
		counselorID = &parsed
	}

	issued, err := h.links.Issue(c.Request.Context(), identityFrom(c), counselorID, req.ExpiresInHours)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, issued)
}
