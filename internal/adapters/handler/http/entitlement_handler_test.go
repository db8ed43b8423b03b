package http_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizreel/engagement-engine/internal/core/domain"
)

func TestEntitlementHandler_Summary(t *testing.T) {
	r := setupEngagementRouter(newFakeClock())

	w := doJSON(t, r, "GET", "/api/v1/entitlements", "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var summary domain.EntitlementSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.False(t, summary.Plus)
	assert.Equal(t, domain.TrialEligible, summary.TrialStatus)
	assert.Equal(t, 2, summary.Remaining["smart_picks"])
}

func TestEntitlementHandler_Consume(t *testing.T) {
	t.Run("Grants until the quota runs out", func(t *testing.T) {
		r := setupEngagementRouter(newFakeClock())

		for i := 0; i < 2; i++ {
			w := doJSON(t, r, "POST", "/api/v1/entitlements/consume", "user-1", gin.H{"feature": "smart_picks"})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"granted":true`)
		}

		w := doJSON(t, r, "POST", "/api/v1/entitlements/consume", "user-1", gin.H{"feature": "smart_picks"})
		assert.Equal(t, http.StatusOK, w.Code, "exhaustion is a normal outcome")
		assert.Contains(t, w.Body.String(), `"granted":false`)
		assert.Contains(t, w.Body.String(), `"remaining":0`)
	})

	t.Run("Missing feature is a 400", func(t *testing.T) {
		r := setupEngagementRouter(newFakeClock())

		w := doJSON(t, r, "POST", "/api/v1/entitlements/consume", "user-1", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEntitlementHandler_Trial(t *testing.T) {
	clock := newFakeClock()
	r := setupEngagementRouter(clock)

	w := doJSON(t, r, "POST", "/api/v1/entitlements/trial", "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"started":true`)

	w = doJSON(t, r, "POST", "/api/v1/entitlements/trial", "user-1", nil)
	assert.Contains(t, w.Body.String(), `"started":false`)

	// trial bypasses the quota while it lasts
	w = doJSON(t, r, "GET", "/api/v1/entitlements", "user-1", nil)
	var summary domain.EntitlementSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, domain.TrialActive, summary.TrialStatus)
	assert.Equal(t, domain.UnlimitedUses, summary.Remaining["smart_picks"])

	clock.now = clock.now.Add(96 * time.Hour)
	w = doJSON(t, r, "GET", "/api/v1/entitlements", "user-1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, domain.TrialExpired, summary.TrialStatus)
}

func TestEntitlementHandler_Bonus(t *testing.T) {
	t.Run("Credit shows up in remaining", func(t *testing.T) {
		r := setupEngagementRouter(newFakeClock())

		w := doJSON(t, r, "POST", "/api/v1/entitlements/bonus", "user-1", gin.H{"feature": "smart_picks", "count": 3})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"remaining":5`)
	})

	t.Run("Zero count is rejected by validation", func(t *testing.T) {
		r := setupEngagementRouter(newFakeClock())

		w := doJSON(t, r, "POST", "/api/v1/entitlements/bonus", "user-1", gin.H{"feature": "smart_picks", "count": 0})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEntitlementHandler_SetPlus(t *testing.T) {
	r := setupEngagementRouter(newFakeClock())

	w := doJSON(t, r, "PUT", "/api/v1/entitlements/plus", "user-1", gin.H{"active": true})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/entitlements", "user-1", nil)
	var summary domain.EntitlementSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.True(t, summary.Plus)
	assert.Equal(t, domain.TrialNotEligible, summary.TrialStatus)
	assert.Equal(t, domain.UnlimitedUses, summary.Remaining["smart_picks"])

	// the purchase backend can also revoke
	w = doJSON(t, r, "PUT", "/api/v1/entitlements/plus", "user-1", gin.H{"active": false})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/entitlements", "user-1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.False(t, summary.Plus)
}

func TestEntitlementHandler_Activity(t *testing.T) {
	r := setupEngagementRouter(newFakeClock())

	w := doJSON(t, r, "POST", "/api/v1/activity", "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"recorded":true`)

	// idempotent within the same day
	w = doJSON(t, r, "POST", "/api/v1/activity", "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
