package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/timeslot"
)

// errorBody is the uniform error envelope for every failure response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps err to its status via the apperr taxonomy. Unclassified
// errors are logged in full and surface only a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.KindOf(err).HTTPStatus()
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, errorBody{Code: status, Message: apperr.Message(err)})
}

func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// slotView is the wire shape of a slot; times carry the explicit +09:00 offset.
type slotView struct {
	ID          string `json:"id"`
	CounselorID string `json:"counselorId"`
	StartAt     string `json:"startAt"`
	EndAt       string `json:"endAt"`
	Capacity    int    `json:"capacity"`
	BookedCount int    `json:"bookedCount"`
	Status      string `json:"status"`
}

func newSlotView(slot *model.ScheduleSlot) slotView {
	return slotView{
		ID:          slot.ID.String(),
		CounselorID: slot.CounselorID.String(),
		StartAt:     timeslot.FormatLocal(slot.StartAt),
		EndAt:       timeslot.FormatLocal(slot.EndAt),
		Capacity:    slot.Capacity,
		BookedCount: slot.BookedCount,
		Status:      string(slot.Status),
	}
}

func newSlotViews(slots []*model.ScheduleSlot) []slotView {
	views := make([]slotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, newSlotView(slot))
	}
	return views
}
