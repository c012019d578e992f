package match

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/connection"
	"github.com/sudo-init-do/cuttr/internal/swipe"
)

const (
	aliceID    = "0b6d8f5e-1f0a-4c55-9d55-6a1f0c0e0a01"
	bobID      = "0b6d8f5e-1f0a-4c55-9d55-6a1f0c0e0a02"
	pothosID   = "5a4e3c2b-1d0e-4f9a-8b7c-6d5e4f3a2b01"
	monsteraID = "5a4e3c2b-1d0e-4f9a-8b7c-6d5e4f3a2b02"
	missingID  = "5a4e3c2b-1d0e-4f9a-8b7c-6d5e4f3a2b99"
)

func submitSwipes(t *testing.T, h *Handler, userID, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/swipes/me", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	require.NoError(t, h.SubmitSwipes(c))

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestSubmitSwipesReportsMatchesBeforeAFailure(t *testing.T) {
	plants := plantStore{
		pothosID:   {ID: pothosID, UserID: aliceID, SpeciesName: "Pothos"},
		monsteraID: {ID: monsteraID, UserID: bobID, SpeciesName: "Monstera"},
	}
	ledger := swipe.NewLedger(&swipeStore{swipes: map[[2]string]swipe.Swipe{}})
	engine := NewEngine(ledger, plants, connection.NewService(connection.NewMemStore()), &matchStore{}, &recordingNotifier{}, nil)
	h := NewHandler(engine, ledger)

	_, err := ledger.RecordSwipe(context.Background(), monsteraID, pothosID, true)
	require.NoError(t, err)

	body := `[
		{"swiper_plant_id":"` + pothosID + `","swiped_plant_id":"` + monsteraID + `","is_like":true},
		{"swiper_plant_id":"` + pothosID + `","swiped_plant_id":"` + missingID + `","is_like":true}
	]`
	code, out := submitSwipes(t, h, aliceID, body)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `true`, string(out["is_match"]))

	var matches []Event
	require.NoError(t, json.Unmarshal(out["matches"], &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, monsteraID, matches[0].Plant2.ID)

	var results []SwipeResult
	require.NoError(t, json.Unmarshal(out["results"], &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].IsMatch)
	assert.Empty(t, results[0].Error)
	assert.False(t, results[1].Recorded)
	assert.Equal(t, "not_found", results[1].Kind)

	code, _ = submitSwipes(t, h, aliceID, `[{"swiper_plant_id":"bad","swiped_plant_id":"`+monsteraID+`"}]`)
	assert.Equal(t, http.StatusBadRequest, code)
}
