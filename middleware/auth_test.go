package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serviqo/models"
	"serviqo/utils"
)

func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWTAuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		actor := Actor(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": string(actor.Role)})
	})
	r.GET("/probe", chain...)
	return r
}

func probe(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	token, err := utils.GenerateToken("cust-42", "customer", time.Hour)
	require.NoError(t, err)

	w := probe(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cust-42")
	assert.Contains(t, w.Body.String(), "customer")
}

func TestJWTAuthMiddlewareRejects(t *testing.T) {
	r := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, probe(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(r, "Bearer ").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(r, "Bearer not-a-token").Code)

	expired, err := utils.GenerateToken("cust-42", "customer", -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, probe(r, "Bearer "+expired).Code)
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter(RequireRole(models.RoleProvider))

	providerToken, err := utils.GenerateToken("prov-1", "provider", time.Hour)
	require.NoError(t, err)
	customerToken, err := utils.GenerateToken("cust-1", "customer", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, probe(r, "Bearer "+providerToken).Code)
	assert.Equal(t, http.StatusForbidden, probe(r, "Bearer "+customerToken).Code)
}
