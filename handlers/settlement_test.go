package handlers

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charettep/splitup/models"
)

func TestSettlementResponse(t *testing.T) {
	settlement := &models.Settlement{
		ID:       uuid.New(),
		Name:     "apartment wind-down",
		Currency: "CAD",
		Person1:  models.User{ID: uuid.New(), Name: "Alex", Email: "alex@example.com"},
	}

	t.Run("second seat pending", func(t *testing.T) {
		got := settlementResponse(settlement, "sam@example.com")

		assert.Equal(t, settlement.ID, got.ID)
		assert.Equal(t, "Alex", got.Person1.Name)
		assert.Nil(t, got.Person2)
		assert.Equal(t, "sam@example.com", got.PendingWith)
	})

	t.Run("both seats claimed", func(t *testing.T) {
		p2ID := uuid.New()
		claimed := *settlement
		claimed.Person2ID = &p2ID
		claimed.Person2 = &models.User{ID: p2ID, Name: "Sam", Email: "sam@example.com"}

		got := settlementResponse(&claimed, "")

		require.NotNil(t, got.Person2)
		assert.Equal(t, "Sam", got.Person2.Name)
		assert.Empty(t, got.PendingWith)
	})
}

// A user with no settlements gets an empty JSON array, not null.
func TestSettlementResponsesEmpty(t *testing.T) {
	responses := settlementResponses(nil)
	require.NotNil(t, responses)
	assert.Empty(t, responses)

	payload, err := json.Marshal(responses)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
}
