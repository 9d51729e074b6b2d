package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movecall/models"
)

type fakeBookings struct {
	byRef   map[string]*models.Booking
	updated *models.Booking
	failUpd bool
}

func (f *fakeBookings) Create(ctx context.Context, b *models.Booking) error { return nil }

func (f *fakeBookings) GetByRef(ctx context.Context, ref string) (*models.Booking, error) {
	b, ok := f.byRef[ref]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookings) HasConfirmed(ctx context.Context, date string, slot models.Slot) (bool, error) {
	return false, nil
}

func (f *fakeBookings) Update(ctx context.Context, b *models.Booking) error {
	if f.failUpd {
		return errors.New("write failed")
	}
	f.updated = b
	return nil
}

type fakeCallRecords struct{}

func (fakeCallRecords) Create(ctx context.Context, r *models.CallRecord) error { return nil }
func (fakeCallRecords) GetByCallID(ctx context.Context, id string) (*models.CallRecord, error) {
	return nil, errors.New("not found")
}

type fakeChecker struct {
	available bool
	conflict  string
}

func (f *fakeChecker) CheckSlot(ctx context.Context, date string, slot models.Slot) (models.SlotStatus, error) {
	return models.SlotStatus{Slot: slot, Available: f.available, ConflictStore: f.conflict}, nil
}

type recordingNotifier struct {
	cancelled   []string
	rescheduled []string
}

func (n *recordingNotifier) BookingCancelled(ctx context.Context, b *models.Booking) {
	n.cancelled = append(n.cancelled, b.BookingID)
}

func (n *recordingNotifier) BookingRescheduled(ctx context.Context, b *models.Booking) {
	n.rescheduled = append(n.rescheduled, b.BookingID)
}

func confirmedBooking(ref string) *models.Booking {
	return &models.Booking{
		BookingID: ref,
		Customer:  models.Customer{Name: "Jane Doe", Phone: "+15125550100", Email: "jane@example.com"},
		Schedule:  models.Schedule{Date: "2026-09-15", Slot: models.SlotMorning},
		Status:    models.BookingStatusConfirmed,
	}
}

func newBookingRouter(repo *fakeBookings, checker *fakeChecker, notifier *recordingNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(repo, fakeCallRecords{}, checker, notifier, zap.NewNop())
	r := gin.New()
	r.GET("/api/bookings/:ref", h.GetBooking)
	r.POST("/api/bookings/:ref/cancel", h.CancelBooking)
	r.POST("/api/bookings/:ref/reschedule", h.RescheduleBooking)
	return r
}

func TestGetBooking(t *testing.T) {
	repo := &fakeBookings{byRef: map[string]*models.Booking{"MV-ABC123": confirmedBooking("MV-ABC123")}}
	r := newBookingRouter(repo, &fakeChecker{available: true}, &recordingNotifier{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/MV-ABC123", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got models.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if got.BookingID != "MV-ABC123" || got.Status != models.BookingStatusConfirmed {
		t.Errorf("got %+v", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/MV-NOPE", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing ref: status = %d, want 404", w.Code)
	}
}

func TestCancelBooking(t *testing.T) {
	repo := &fakeBookings{byRef: map[string]*models.Booking{"MV-ABC123": confirmedBooking("MV-ABC123")}}
	notifier := &recordingNotifier{}
	r := newBookingRouter(repo, &fakeChecker{available: true}, notifier)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings/MV-ABC123/cancel", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if repo.updated == nil || repo.updated.Status != models.BookingStatusCancelled {
		t.Errorf("booking not persisted as cancelled: %+v", repo.updated)
	}
	if len(notifier.cancelled) != 1 || notifier.cancelled[0] != "MV-ABC123" {
		t.Errorf("cancellation notice = %v, want [MV-ABC123]", notifier.cancelled)
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	b := confirmedBooking("MV-ABC123")
	b.Status = models.BookingStatusCancelled
	repo := &fakeBookings{byRef: map[string]*models.Booking{"MV-ABC123": b}}
	notifier := &recordingNotifier{}
	r := newBookingRouter(repo, &fakeChecker{available: true}, notifier)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings/MV-ABC123/cancel", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	if len(notifier.cancelled) != 0 {
		t.Errorf("no notice expected, got %v", notifier.cancelled)
	}
}

func TestRescheduleBooking(t *testing.T) {
	repo := &fakeBookings{byRef: map[string]*models.Booking{"MV-ABC123": confirmedBooking("MV-ABC123")}}
	notifier := &recordingNotifier{}
	r := newBookingRouter(repo, &fakeChecker{available: true}, notifier)

	body := strings.NewReader(`{"date":"2026-09-20","slot":"afternoon"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/MV-ABC123/reschedule", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if repo.updated == nil || repo.updated.Schedule.Date != "2026-09-20" || repo.updated.Schedule.Slot != models.SlotAfternoon {
		t.Errorf("schedule not updated: %+v", repo.updated)
	}
	if len(notifier.rescheduled) != 1 {
		t.Errorf("reschedule notice = %v, want one entry", notifier.rescheduled)
	}
}

func TestRescheduleRejectsUnavailableWindow(t *testing.T) {
	repo := &fakeBookings{byRef: map[string]*models.Booking{"MV-ABC123": confirmedBooking("MV-ABC123")}}
	notifier := &recordingNotifier{}
	r := newBookingRouter(repo, &fakeChecker{available: false, conflict: "crew-alpha"}, notifier)

	body := strings.NewReader(`{"date":"2026-09-20","slot":"morning"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/MV-ABC123/reschedule", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	if repo.updated != nil {
		t.Errorf("booking should not have been written: %+v", repo.updated)
	}
	if len(notifier.rescheduled) != 0 {
		t.Errorf("no notice expected, got %v", notifier.rescheduled)
	}
}

func TestRescheduleValidatesInput(t *testing.T) {
	repo := &fakeBookings{byRef: map[string]*models.Booking{"MV-ABC123": confirmedBooking("MV-ABC123")}}
	r := newBookingRouter(repo, &fakeChecker{available: true}, &recordingNotifier{})

	for _, body := range []string{
		`{}`,
		`{"date":"2026-09-20","slot":"evening"}`,
		`{"date":"September 20","slot":"morning"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/MV-ABC123/reschedule", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}
