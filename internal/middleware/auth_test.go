package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminAuthMiddleware(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextAdminID))
	})
	return r
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssuedTokenPassesMiddleware(t *testing.T) {
	issuer := NewJWTIssuer(testSecret, 15*time.Minute)
	token, exp, err := issuer.IssueAdminToken("65f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	w := call(newRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "65f1a2b3c4d5e6f708192a3b", w.Body.String())
}

func TestMiddlewareRejects(t *testing.T) {
	expired := NewJWTIssuer(testSecret, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expiredToken, _, err := expired.IssueAdminToken("abc")
	require.NoError(t, err)

	otherKey, _, err := NewJWTIssuer("other", time.Minute).IssueAdminToken("abc")
	require.NoError(t, err)

	notAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "abc",
		"exp":     time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "abc",
		"is_admin": true,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic Zm9vOmJhcg==",
		"garbage":        "Bearer not.a.jwt",
		"expired":        "Bearer " + expiredToken,
		"wrong key":      "Bearer " + otherKey,
		"not admin":      "Bearer " + notAdmin,
		"no expiry":      "Bearer " + noExpiry,
	}
	r := newRouter()
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, call(r, header).Code)
		})
	}
}

func TestIssuerRequiresAdminID(t *testing.T) {
	_, _, err := NewJWTIssuer(testSecret, time.Minute).IssueAdminToken("")
	assert.Error(t, err)
}
