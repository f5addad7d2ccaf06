package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/domain"
	fs "github.com/cs121-teamhub/teamhub-backend/internal/storage/firestore"
)

func TestToStore(t *testing.T) {
	doc := practice("u1")
	doc["eventId"] = "ev1"
	doc["times"] = map[string]interface{}{
		"from": "2020-12-10T07:45:00.000000Z",
		"to":   "2020-12-10T08:00:00.000000Z",
	}

	data, err := toStore(doc)
	require.NoError(t, err)

	_, hasID := data["eventId"]
	assert.False(t, hasID)
	assert.Equal(t, time.Date(2020, 12, 10, 0, 0, 0, 0, time.UTC), data["dates"].(map[string]interface{})["from"])
	assert.Equal(t, time.Date(2020, 12, 10, 7, 45, 0, 0, time.UTC), data["times"].(map[string]interface{})["from"])
	assert.Equal(t, "2020-12-10T07:45:00.000000Z", doc["times"].(map[string]interface{})["from"], "caller document is untouched")
}

func TestToStore_BadTimestamp(t *testing.T) {
	doc := practice()
	doc["dates"] = map[string]interface{}{"from": "2020-12-10", "to": "2020-12-10"}

	_, err := toStore(doc)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))
}

func TestFromStore(t *testing.T) {
	data := map[string]interface{}{
		"name":    "Soccer Practice",
		"userIds": []interface{}{},
		"dates": map[string]interface{}{
			"from": time.Date(2020, 12, 10, 0, 0, 0, 0, time.UTC),
			"to":   time.Date(2020, 12, 10, 0, 0, 0, 0, time.UTC),
		},
		"repeating": map[string]interface{}{
			"frequency":  "w",
			"daysOfWeek": []interface{}{"M"},
			"startDate":  time.Date(2020, 12, 10, 0, 0, 0, 0, time.UTC),
			"endDate":    time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	doc := fromStore("ev1", data)
	assert.Equal(t, "ev1", doc["eventId"])
	assert.Equal(t, "2020-12-10T00:00:00.000000Z", doc["dates"].(map[string]interface{})["to"])
	assert.Equal(t, "2021-01-10T00:00:00.000000Z", doc["repeating"].(map[string]interface{})["endDate"])
	assert.Equal(t, []interface{}{"M"}, doc["repeating"].(map[string]interface{})["daysOfWeek"])
}

// TestFirestoreStore runs against the Firestore emulator when
// FIRESTORE_EMULATOR_HOST is set.
func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	store := NewFirestoreStore(fs.NewUserClientFactory("demo-teamhub"))
	scope := Scope{Credential: "owner", SchoolID: "school-" + uuid.NewString(), TeamID: "team1"}

	runStoreContract(t, store, scope)

	t.Run("timestamps round trip", func(t *testing.T) {
		ctx := context.Background()
		doc := practice("rt")
		doc["times"] = map[string]interface{}{
			"from": "2020-12-10T07:45:00.000000Z",
			"to":   "2020-12-10T08:00:00.000000Z",
		}
		id, err := store.Create(ctx, scope, doc)
		require.NoError(t, err)

		got, err := store.List(ctx, scope, "rt")
		require.NoError(t, err)
		for _, d := range got {
			if d["eventId"] == id {
				assert.Equal(t, doc["times"], d["times"])
				assert.Equal(t, doc["dates"], d["dates"])
				return
			}
		}
		t.Fatalf("event %s not listed", id)
	})
}
