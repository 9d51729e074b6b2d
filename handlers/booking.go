package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingRepo "movecall/database/repository/booking"
	callrecordRepo "movecall/database/repository/callrecord"
	"movecall/models"
	"movecall/utils"
)

// SlotChecker verifies a (date, slot) pair against every schedule store.
type SlotChecker interface {
	CheckSlot(ctx context.Context, date string, slot models.Slot) (models.SlotStatus, error)
}

// BookingNotifier sends customer-facing updates about an existing booking.
type BookingNotifier interface {
	BookingCancelled(ctx context.Context, booking *models.Booking)
	BookingRescheduled(ctx context.Context, booking *models.Booking)
}

// BookingHandler serves the operator-facing JSON API.
type BookingHandler struct {
	bookings bookingRepo.BookingRepository
	calls    callrecordRepo.CallRecordRepository
	slots    SlotChecker
	notifier BookingNotifier
	logger   *zap.Logger
}

func NewBookingHandler(bookings bookingRepo.BookingRepository, calls callrecordRepo.CallRecordRepository,
	slots SlotChecker, notifier BookingNotifier, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, calls: calls, slots: slots, notifier: notifier, logger: logger}
}

// GetBooking returns a booking by its human-shareable reference.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	ref := c.Param("ref")
	b, err := h.bookings.GetByRef(c.Request.Context(), ref)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found")
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking marks a booking cancelled and notifies the customer. The
// freed (date, slot) becomes bookable again immediately: the uniqueness
// guard only covers confirmed bookings.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.bookings.GetByRef(ctx, c.Param("ref"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found")
		return
	}
	if b.Status == models.BookingStatusCancelled {
		utils.JSONError(c, http.StatusConflict, "booking already cancelled")
		return
	}

	b.Status = models.BookingStatusCancelled
	b.UpdatedAt = time.Now().UTC()
	if err := h.bookings.Update(ctx, b); err != nil {
		h.logger.Error("booking cancellation failed",
			zap.String("bookingId", b.BookingID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "could not cancel booking")
		return
	}

	h.logger.Info("booking cancelled", zap.String("bookingId", b.BookingID))
	h.notifier.BookingCancelled(ctx, b)
	c.JSON(http.StatusOK, b)
}

type rescheduleRequest struct {
	Date string      `json:"date" binding:"required"`
	Slot models.Slot `json:"slot" binding:"required"`
}

// RescheduleBooking moves a confirmed booking to a new (date, slot) after
// re-checking availability, then notifies the customer.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	ctx := c.Request.Context()
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "date and slot are required")
		return
	}
	if !req.Slot.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "slot must be morning or afternoon")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	b, err := h.bookings.GetByRef(ctx, c.Param("ref"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found")
		return
	}
	if b.Status != models.BookingStatusConfirmed {
		utils.JSONError(c, http.StatusConflict, "only confirmed bookings can be rescheduled")
		return
	}

	status, err := h.slots.CheckSlot(ctx, req.Date, req.Slot)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "could not check the requested window")
		return
	}
	if !status.Available {
		utils.JSONError(c, http.StatusConflict, "requested window is not available", status.ConflictStore)
		return
	}

	b.Schedule = models.Schedule{Date: req.Date, Slot: req.Slot}
	b.UpdatedAt = time.Now().UTC()
	if err := h.bookings.Update(ctx, b); err != nil {
		h.logger.Error("booking reschedule failed",
			zap.String("bookingId", b.BookingID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "could not reschedule booking")
		return
	}

	h.logger.Info("booking rescheduled", zap.String("bookingId", b.BookingID),
		zap.String("date", req.Date), zap.String("slot", string(req.Slot)))
	h.notifier.BookingRescheduled(ctx, b)
	c.JSON(http.StatusOK, b)
}

// GetCallRecord returns the audited transcript of a finished call.
func (h *BookingHandler) GetCallRecord(c *gin.Context) {
	rec, err := h.calls.GetByCallID(c.Request.Context(), c.Param("callId"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "call record not found")
		return
	}
	c.JSON(http.StatusOK, rec)
}
