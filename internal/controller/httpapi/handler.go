package httpapi

import (
	"go.uber.org/zap"

	"github.com/counselbook/reserve/internal/service"
)

// Handler holds the services shared by the API handlers.
type Handler struct {
	slots    *service.SlotService
	links    *service.LinkTokenService
	bookings *service.BookingService
	reserve  *service.ReserveService
	logger   *zap.Logger
}

func NewHandler(
	slots *service.SlotService,
	links *service.LinkTokenService,
	bookings *service.BookingService,
	reserve *service.ReserveService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		slots:    slots,
		links:    links,
		bookings: bookings,
		reserve:  reserve,
		logger:   logger,
	}
}
