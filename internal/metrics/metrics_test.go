package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuthAttempt(t *testing.T) {
	before := testutil.ToFloat64(AuthAttempts.WithLabelValues("login", "failure"))

	RecordAuthAttempt("login", false)
	RecordAuthAttempt("login", false)

	after := testutil.ToFloat64(AuthAttempts.WithLabelValues("login", "failure"))
	assert.Equal(t, before+2, after)
}

func TestRecordTagResolution(t *testing.T) {
	createdBefore := testutil.ToFloat64(TagsCreated)
	existingBefore := testutil.ToFloat64(TagResolutions.WithLabelValues("existing"))

	RecordTagResolution(true)
	RecordTagResolution(false)

	assert.Equal(t, createdBefore+1, testutil.ToFloat64(TagsCreated))
	assert.Equal(t, existingBefore+1, testutil.ToFloat64(TagResolutions.WithLabelValues("existing")))
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/x", "204"))
	RecordAPIRequest("GET", "/x", http.StatusNoContent, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/x", "204")))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/tasks/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := APIRequestsTotal.WithLabelValues("GET", "/tasks/{id}", "418")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "/tasks/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestHandler_Exposes(t *testing.T) {
	RecordAuthAttempt("register", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "keepup_auth_attempts_total"))
}
