package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptofunds/internal/reqctx"
	"cryptofunds/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func echoAdmin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := reqctx.GetAdmin(r.Context())
		_, _ = w.Write([]byte(sub))
	})
}

func TestRequestID_Generated(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = reqctx.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, got)
	assert.Equal(t, got, rr.Header().Get(HeaderRequestID))
}

func TestRequestID_FromHeader(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = reqctx.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc-123", got)
}

func TestAdminAuth_Bearer(t *testing.T) {
	token, err := utils.GenerateAdminToken(testSecret, "ops", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	AdminAuth(testSecret)(echoAdmin()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ops", rr.Body.String())
}

func TestAdminAuth_Cookie(t *testing.T) {
	token, err := utils.GenerateAdminToken(testSecret, "ops", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pages", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookie, Value: token})
	rr := httptest.NewRecorder()
	AdminAuth(testSecret)(echoAdmin()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminAuth_Rejects(t *testing.T) {
	expired, err := utils.GenerateAdminToken(testSecret, "ops", -time.Minute)
	require.NoError(t, err)
	foreign, err := utils.GenerateAdminToken("other", "ops", time.Hour)
	require.NoError(t, err)
	editor, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "bob",
		"role": "editor",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		secret string
		want   int
	}{
		{"no token", "", testSecret, http.StatusUnauthorized},
		{"garbage", "Bearer nope", testSecret, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, testSecret, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, testSecret, http.StatusUnauthorized},
		{"not admin", "Bearer " + editor, testSecret, http.StatusForbidden},
		{"empty secret", "Bearer " + foreign, "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/pages/1", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			AdminAuth(tc.secret)(echoAdmin()).ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}

func TestLogging_KeepsStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}
