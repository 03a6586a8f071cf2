package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeongwook5013/SecondHand-Shop/internal/service"
)

func newTestGate() (*echo.Echo, *service.TokenService, echo.HandlerFunc) {
	e := echo.New()
	tokens := &service.TokenService{Secret: []byte("test-jwt-secret"), TTL: 24 * time.Hour}
	gate := NewBearerAuth(tokens)

	handler := gate.Require(func(c echo.Context) error {
		return c.String(http.StatusOK, Username(c))
	})
	return e, tokens, handler
}

func invoke(e *echo.Echo, handler echo.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, handler(c)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	e, _, handler := newTestGate()
	_, err := invoke(e, handler, "")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestBearerAuth_MalformedHeader(t *testing.T) {
	t.Parallel()

	e, tokens, handler := newTestGate()
	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "wrong scheme", header: "Token " + token},
		{name: "no scheme", header: token},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := invoke(e, handler, tt.header)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		})
	}
}

func TestBearerAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	e := echo.New()
	expiredIssuer := &service.TokenService{Secret: []byte("test-jwt-secret"), TTL: -time.Hour}
	gate := NewBearerAuth(&service.TokenService{Secret: []byte("test-jwt-secret"), TTL: 24 * time.Hour})
	handler := gate.Require(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	token, err := expiredIssuer.Issue("alice")
	require.NoError(t, err)

	_, err = invoke(e, handler, "Bearer "+token)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestBearerAuth_ValidToken_BindsUsername(t *testing.T) {
	t.Parallel()

	e, tokens, handler := newTestGate()
	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	rec, err := invoke(e, handler, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}
