package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuko-store/middleware"
	"fuko-store/utils"
)

func whoami(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		http.Error(w, "no claims", http.StatusInternalServerError)
		return
	}
	w.Write([]byte(claims.Role + ":" + claims.Phone))
}

func serve(t *testing.T, h http.Handler, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	utils.JwtKey = []byte("middleware-secret")
	h := middleware.AuthMiddleware(http.HandlerFunc(whoami))

	customer, err := utils.GenerateSessionToken("9876543210", time.Hour)
	require.NoError(t, err)

	rec := serve(t, h, "Bearer "+customer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "customer:9876543210", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(t, h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, h, "Token "+customer).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, h, "Bearer not-a-jwt").Code)
}

func TestRoleMiddleware(t *testing.T) {
	utils.JwtKey = []byte("middleware-secret")
	customer, err := utils.GenerateSessionToken("9876543210", time.Hour)
	require.NoError(t, err)
	admin, err := utils.GenerateAdminToken(time.Hour)
	require.NoError(t, err)

	customerOnly := middleware.AuthMiddleware(middleware.CustomerMiddleware(http.HandlerFunc(whoami)))
	adminOnly := middleware.AuthMiddleware(middleware.AdminMiddleware(http.HandlerFunc(whoami)))

	assert.Equal(t, http.StatusOK, serve(t, customerOnly, "Bearer "+customer).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, customerOnly, "Bearer "+admin).Code)
	assert.Equal(t, http.StatusOK, serve(t, adminOnly, "Bearer "+admin).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, adminOnly, "Bearer "+customer).Code)

	// role checks without AuthMiddleware in front never pass
	rec := serve(t, middleware.AdminMiddleware(http.HandlerFunc(whoami)), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWithClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), &utils.Claims{Role: utils.RoleCustomer, Phone: "9123456780"}))

	claims, ok := middleware.ClaimsFrom(req)
	require.True(t, ok)
	assert.Equal(t, "9123456780", claims.Phone)
}

type observed struct {
	route, method string
	status        int
}

type recordingObserver struct {
	calls []observed
}

func (o *recordingObserver) ObserveRequest(route, method string, status int, _ time.Duration) {
	o.calls = append(o.calls, observed{route, method, status})
}

func TestLogMiddleware(t *testing.T) {
	observer := &recordingObserver{}
	router := mux.NewRouter()
	router.Use(middleware.LogMiddleware(observer))
	router.HandleFunc("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "order not found", http.StatusNotFound)
	}).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	for _, path := range []string{"/orders/ORD-1A2B3C4D5E6F", "/health"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, observer.calls, 2)
	assert.Equal(t, observed{"/orders/{id}", http.MethodGet, http.StatusNotFound}, observer.calls[0])
	assert.Equal(t, observed{"/health", http.MethodGet, http.StatusOK}, observer.calls[1])
}

func TestLogMiddlewareWithoutObserver(t *testing.T) {
	h := middleware.LogMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/anything", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
