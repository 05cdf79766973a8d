package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signcraft/scheduling-service/internal/api/middleware"
	"github.com/signcraft/scheduling-service/internal/service/bookings"
	"github.com/signcraft/scheduling-service/internal/service/bookings/models"
)

type fakeBookingService struct {
	resp *models.BookingResponse
	err  error

	gotID    int64
	gotActor models.Actor
}

func (s *fakeBookingService) GetByID(_ context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.gotID = id
	s.gotActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/bookings/{bookingId}", h.Handle).Methods(http.MethodGet)
	return r
}

func TestHandle_ReturnsBooking(t *testing.T) {
	svc := &fakeBookingService{resp: &models.BookingResponse{
		ID:         7,
		ShopID:     1,
		CustomerID: 42,
		Status:     "PENDING",
	}}
	router := newRouter(NewHandler(svc, noopLogger{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/7", nil)
	req.Header.Set(middleware.HeaderUserID, "42")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotID)
	assert.Equal(t, int64(42), svc.gotActor.UserID)
	assert.Equal(t, middleware.RoleCustomer, svc.gotActor.Role)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
}

func TestHandle_InvalidBookingID(t *testing.T) {
	svc := &fakeBookingService{}
	router := newRouter(NewHandler(svc, noopLogger{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil)
	req.Header.Set(middleware.HeaderUserID, "42")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_NotFound(t *testing.T) {
	svc := &fakeBookingService{err: bookings.ErrBookingNotFound}
	router := newRouter(NewHandler(svc, noopLogger{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/404", nil)
	req.Header.Set(middleware.HeaderUserID, "42")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_AccessDenied(t *testing.T) {
	svc := &fakeBookingService{err: bookings.ErrAccessDenied}
	router := newRouter(NewHandler(svc, noopLogger{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/7", nil)
	req.Header.Set(middleware.HeaderUserID, "99")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandle_MissingAuthHeader(t *testing.T) {
	svc := &fakeBookingService{}
	router := newRouter(NewHandler(svc, noopLogger{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/7", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
