package update_order_deposit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signcraft/scheduling-service/internal/api/middleware"
	recomputeOrder "github.com/signcraft/scheduling-service/internal/usecase/recompute_order"
)

type fakeUseCase struct {
	resp *recomputeOrder.Response
	err  error

	gotReq *recomputeOrder.Request
}

func (u *fakeUseCase) Execute(_ context.Context, req *recomputeOrder.Request) (*recomputeOrder.Response, error) {
	u.gotReq = req
	if u.err != nil {
		return nil, u.err
	}
	return u.resp, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/orders/{orderId}/deposit", h.Handle).Methods(http.MethodPatch)
	return r
}

func patchDeposit(router *mux.Router, orderID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+orderID+"/deposit", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "7")
	req.Header.Set(middleware.HeaderUserRole, middleware.RoleStaff)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_UpdatesDeposit(t *testing.T) {
	uc := &fakeUseCase{resp: &recomputeOrder.Response{ID: 10, DepositPct: 25, DepositAmount: 44.28}}
	router := newRouter(NewHandler(uc, noopLogger{}))

	rec := patchDeposit(router, "10", `{"depositPct": 25}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.gotReq)
	assert.Equal(t, int64(10), uc.gotReq.OrderID)
	assert.Equal(t, int64(7), uc.gotReq.UserID)
	assert.Equal(t, middleware.RoleStaff, uc.gotReq.UserRole)
	assert.InDelta(t, 25, uc.gotReq.DepositPct, 0.001)
}

func TestHandle_LockedOrderMapsTo423(t *testing.T) {
	uc := &fakeUseCase{err: recomputeOrder.ErrOrderLocked}
	router := newRouter(NewHandler(uc, noopLogger{}))

	rec := patchDeposit(router, "10", `{"depositPct": 25}`)

	assert.Equal(t, http.StatusLocked, rec.Code)
}

func TestHandle_AccessDeniedMapsTo403(t *testing.T) {
	uc := &fakeUseCase{err: recomputeOrder.ErrAccessDenied}
	router := newRouter(NewHandler(uc, noopLogger{}))

	rec := patchDeposit(router, "10", `{"depositPct": 25}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &fakeUseCase{}
	router := newRouter(NewHandler(uc, noopLogger{}))

	rec := patchDeposit(router, "10", `{"depositPct": "half"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.gotReq)
}
