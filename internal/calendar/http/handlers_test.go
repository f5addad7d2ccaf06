package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/identity"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/repository"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/service"
)

type stubIdentity struct{}

func (stubIdentity) CheckToken(_ context.Context, token string) (string, error) {
	if token != "user123" && token != "user321" {
		return "", fmt.Errorf("%w: status 404", identity.ErrRejected)
	}
	return "firebase-" + token, nil
}

func (stubIdentity) CurrentUser(_ context.Context, token string) (*identity.User, error) {
	return &identity.User{UserID: token, SchoolID: "school1", TeamID: "team1"}, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewCalendarService(stubIdentity{}, repository.NewMemoryStore())
	r := gin.New()
	New(svc).Register(r)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const addBody = `{
	"userToken": "user123",
	"userIds": ["user123", "user321"],
	"eventType": "practice",
	"name": "Soccer Practice",
	"location": "Parents",
	"times": {"from": "2020-12-10T07:45:00.000Z", "to": "2020-12-10T08:00:00.000Z"},
	"dates": {"from": "2020-12-10", "to": "2020-12-10"},
	"repeating": {"frequency": "w", "daysOfWeek": ["M", "W"], "startDate": "2020-12-10", "endDate": "2021-01-10"}
}`

func listEvents(t *testing.T, r *gin.Engine, token string) []map[string]interface{} {
	t.Helper()
	w := do(r, http.MethodGet, "/events", `{"userToken": "`+token+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	return events
}

func TestEvents_CRUD(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/events", addBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `"Success"`, w.Body.String())

	w = do(r, http.MethodPost, "/events", `{
		"userToken": "user123",
		"eventType": "meeting",
		"name": "Team Meeting",
		"dates": {"from": "2020-12-11", "to": "2020-12-11"}
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	events := listEvents(t, r, "user321")
	require.Len(t, events, 2)

	var practiceID string
	for _, e := range events {
		if e["name"] == "Soccer Practice" {
			practiceID = e["eventId"].(string)
			assert.Equal(t, "2020-12-10T07:45:00.000000Z", e["times"].(map[string]interface{})["from"])
			assert.Equal(t, []interface{}{"M", "W"}, e["repeating"].(map[string]interface{})["daysOfWeek"])
		}
	}
	require.NotEmpty(t, practiceID)

	w = do(r, http.MethodPut, "/events", `{"userToken": "user123", "eventId": "`+practiceID+`", "userIds": ["user123"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, listEvents(t, r, "user321"), 1)
	assert.Len(t, listEvents(t, r, "user123"), 2)

	w = do(r, http.MethodDelete, "/events", `{"userToken": "user123", "eventId": "`+practiceID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(r, http.MethodDelete, "/events", `{"userToken": "user123", "eventId": "`+practiceID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, "delete is idempotent")
	assert.Len(t, listEvents(t, r, "user123"), 1)
}

func TestEvents_GetWithQueryToken(t *testing.T) {
	r := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/events", addBody).Code)

	w := do(r, http.MethodGet, "/events?userToken=user123", "")
	require.Equal(t, http.StatusOK, w.Code)

	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Len(t, events, 1)
}

func TestEvents_EmptyList(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodGet, "/events", `{"userToken": "user123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestEvents_Errors(t *testing.T) {
	r := setupRouter(t)

	cases := []struct {
		name    string
		method  string
		body    string
		code    int
		message string
	}{
		{"get without body", http.MethodGet, "", http.StatusBadRequest, "Error"},
		{"get empty json", http.MethodGet, `{}`, http.StatusBadRequest, "User token was not provided"},
		{"get token wrong type", http.MethodGet, `{"userToken": 321}`, http.StatusBadRequest, "User token is invalid type: number"},
		{"get unknown token", http.MethodGet, `{"userToken": "nobody"}`, http.StatusUnauthorized, "Invalid user token"},
		{"post without body", http.MethodPost, "", http.StatusBadRequest, "Error"},
		{"post malformed json", http.MethodPost, `{"userToken":`, http.StatusBadRequest, "Error"},
		{"post json array", http.MethodPost, `[]`, http.StatusBadRequest, "Error"},
		{"post missing fields", http.MethodPost, `{"userToken": "user123"}`, http.StatusBadRequest, "Event type was not provided"},
		{"post invalid type", http.MethodPost, strings.Replace(addBody, `"practice"`, `true`, 1), http.StatusBadRequest, "Event type is invalid type: bool"},
		{"post invalid value", http.MethodPost, strings.Replace(addBody, `"practice"`, `"party"`, 1), http.StatusBadRequest, "Event type is invalid value"},
		{"post unknown token", http.MethodPost, strings.Replace(addBody, `"userToken": "user123"`, `"userToken": "x"`, 1), http.StatusUnauthorized, "Invalid user token"},
		{"put missing event id", http.MethodPut, `{"userToken": "user123", "name": "x"}`, http.StatusBadRequest, "Event id was not provided"},
		{"put unknown event", http.MethodPut, `{"userToken": "user123", "eventId": "nope", "name": "x"}`, http.StatusNotFound, "Event nope does not exist"},
		{"delete missing event id", http.MethodDelete, `{"userToken": "user123"}`, http.StatusBadRequest, "Event id was not provided"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.method, "/events", tc.body)
			assert.Equal(t, tc.code, w.Code, w.Body.String())

			var msg string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
			assert.Equal(t, tc.message, msg)
		})
	}
}
