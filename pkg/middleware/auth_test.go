package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler(t *testing.T, gotUserID, gotRole *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUserID = UserIDFromContext(r.Context())
		*gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func staticValidator(claims *Claims, err error) TokenValidator {
	return func(token string) (*Claims, error) {
		return claims, err
	}
}

func TestAuth_ValidToken_InjectsClaims(t *testing.T) {
	var userID, role string
	handler := Auth(staticValidator(&Claims{UserID: "user-1", Role: "seller"}, nil))(okHandler(t, &userID, &role))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "seller", role)
}

func TestAuth_MissingHeader(t *testing.T) {
	var userID, role string
	handler := Auth(staticValidator(&Claims{UserID: "user-1"}, nil))(okHandler(t, &userID, &role))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
	assert.Empty(t, userID)
}

func TestAuth_MalformedHeader(t *testing.T) {
	var userID, role string
	handler := Auth(staticValidator(&Claims{UserID: "user-1"}, nil))(okHandler(t, &userID, &role))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid authorization header format")
}

func TestAuth_InvalidToken(t *testing.T) {
	var userID, role string
	handler := Auth(staticValidator(nil, fmt.Errorf("token expired")))(okHandler(t, &userID, &role))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestRequireRole_Allowed(t *testing.T) {
	var userID, role string
	chain := Auth(staticValidator(&Claims{UserID: "user-1", Role: "admin"}, nil))(
		RequireRole("seller", "admin")(okHandler(t, &userID, &role)),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Denied(t *testing.T) {
	var userID, role string
	chain := Auth(staticValidator(&Claims{UserID: "user-1", Role: "customer"}, nil))(
		RequireRole("seller", "admin")(okHandler(t, &userID, &role)),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserIDFromContext(req.Context()))
	assert.Empty(t, RoleFromContext(req.Context()))
}
