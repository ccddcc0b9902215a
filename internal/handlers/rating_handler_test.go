package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"github.com/workhive/workhive-api/internal/handlers"
)

// ratingRouter registers the ratings route with the same pattern the
// route table uses, so the test fails if handler and route disagree on
// the wildcard name. DryRun keeps gorm from needing a live connection.
func ratingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	h := handlers.NewRatingHandler(db)

	r := gin.New()
	r.GET("/api/services/:id/ratings", h.ForService)
	return r
}

func TestRatingForService_ResolvesRouteParam(t *testing.T) {
	r := ratingRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services/5/ratings", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service_id":5`)
}

func TestRatingForService_InvalidID(t *testing.T) {
	r := ratingRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services/abc/ratings", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_service_id")
}
