package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitusuik/thefox/internal/utils"
)

func authCtx(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/games", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJWTAuthValidToken(t *testing.T) {
	const secret = "test-secret"
	at, err := utils.NewAccessToken(secret, 7, "hunter_one", 5)
	require.NoError(t, err)

	c, _ := authCtx(t, "Bearer "+at.Token)

	called := false
	err = JWTAuth(secret)(func(c echo.Context) error { called = true; return nil })(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "hunter_one", c.Get("login"))
	assert.NotNil(t, c.Get("user_id"))
}

func TestJWTAuthRejects(t *testing.T) {
	const secret = "test-secret"

	wrong, err := utils.NewAccessToken("other-secret", 7, "hunter_one", 5)
	require.NoError(t, err)

	expired, err := utils.NewAccessToken(secret, 7, "hunter_one", -5)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + wrong.Token},
		{"expired", "Bearer " + expired.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := authCtx(t, tc.header)
			err := JWTAuth(secret)(func(echo.Context) error {
				t.Fatal("handler must not run")
				return nil
			})(c)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
