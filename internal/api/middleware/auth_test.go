package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_PassesUserAndRoleToContext(t *testing.T) {
	var gotUserID int64
	var gotRole string

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		require.True(t, ok)
		gotUserID = userID

		role, ok := GetUserRole(r.Context())
		require.True(t, ok)
		gotRole = role

		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderUserRole, RoleStaff)
	rec := httptest.NewRecorder()

	Auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUserID)
	assert.Equal(t, RoleStaff, gotRole)
}

func TestAuth_DefaultsRoleToCustomer(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetUserRole(r.Context())
		require.True(t, ok)
		assert.Equal(t, RoleCustomer, role)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	req.Header.Set(HeaderUserID, "42")
	rec := httptest.NewRecorder()

	Auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_RejectsMissingUserID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	rec := httptest.NewRecorder()

	Auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RejectsInvalidUserID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be called")
	})

	for _, v := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
		req.Header.Set(HeaderUserID, v)
		rec := httptest.NewRecorder()

		Auth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestAuth_RejectsUnknownRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderUserRole, "admin")
	rec := httptest.NewRecorder()

	Auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
