package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/blaaiz/blaaiz-go/tasks"
	"github.com/blaaiz/blaaiz-go/utils/test"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticChecker bool

func (c staticChecker) TestConnection(context.Context) bool {
	return bool(c)
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func TestAPIReadinessMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ready", APIReadinessMiddleware(), okHandler)

	require.NoError(t, tasks.CheckAPIConnection(staticChecker(false)))
	res, err := test.PerformRequest(t, "GET", "/ready", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.Contains(t, res.Body.String(), "Blaaiz API is unreachable")

	require.NoError(t, tasks.CheckAPIConnection(staticChecker(true)))
	res, err = test.PerformRequest(t, "GET", "/ready", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("limits each IP", func(t *testing.T) {
		router := gin.New()
		router.POST("/webhooks/collection", RateLimitMiddleware(2), okHandler)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			res, err := test.PerformRequest(t, "POST", "/webhooks/collection", nil, nil, router)
			require.NoError(t, err)
			codes = append(codes, res.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("zero disables limiting", func(t *testing.T) {
		router := gin.New()
		router.POST("/webhooks/collection", RateLimitMiddleware(0), okHandler)

		for i := 0; i < 5; i++ {
			res, err := test.PerformRequest(t, "POST", "/webhooks/collection", nil, nil, router)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, res.Code)
		}
	})
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())
	router.POST("/webhooks/test", okHandler)

	res, err := test.PerformRequest(t, "OPTIONS", "/webhooks/test", nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "*", res.Header().Get("Access-Control-Allow-Origin"))
}
