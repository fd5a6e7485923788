package models_test

import (
	"testing"

	"github.com/UnknownOlympus/zones/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgent(t *testing.T) {
	t.Parallel()
	pos := models.MustPosition(30.52, 50.45)

	t.Run("success - well-known and extra attributes", func(t *testing.T) {
		t.Parallel()
		agent, err := models.NewAgent(pos, map[string]any{
			"agreeableness": 0.75,
			"age":           float64(42),
			"income":        31000,
			"country_name":  "Ukraine",
			"sex":           "Female",
		})
		require.NoError(t, err)

		agreeableness, err := agent.AgreeablenessValue()
		require.NoError(t, err)
		assert.InDelta(t, 0.75, agreeableness, 0)

		age, err := agent.AgeValue()
		require.NoError(t, err)
		assert.Equal(t, 42, age)

		income, err := agent.IncomeValue()
		require.NoError(t, err)
		assert.InDelta(t, 31000.0, income, 0)

		assert.Equal(t, pos, agent.Position)
		assert.Equal(t, map[string]any{"country_name": "Ukraine", "sex": "Female"}, agent.Extra)

		value, ok := agent.Attr("country_name")
		assert.True(t, ok)
		assert.Equal(t, "Ukraine", value)

		value, ok = agent.Attr("age")
		assert.True(t, ok)
		assert.Equal(t, 42, value)

		_, ok = agent.Attr("religion")
		assert.False(t, ok)
	})

	t.Run("success - missing fields only fail on read", func(t *testing.T) {
		t.Parallel()
		agent, err := models.NewAgent(pos, map[string]any{"income": nil, "nickname": nil})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"nickname": nil}, agent.Extra)

		_, err = agent.AgreeablenessValue()
		require.ErrorIs(t, err, models.ErrMissingField)
		assert.ErrorContains(t, err, "agreeableness")

		_, err = agent.AgeValue()
		require.ErrorIs(t, err, models.ErrMissingField)

		_, err = agent.IncomeValue()
		require.ErrorIs(t, err, models.ErrMissingField)

		_, ok := agent.Attr("income")
		assert.False(t, ok)
	})

	t.Run("success - numeric strings are accepted", func(t *testing.T) {
		t.Parallel()
		agent, err := models.NewAgent(pos, map[string]any{"income": "1200.5", "age": "7"})
		require.NoError(t, err)

		income, err := agent.IncomeValue()
		require.NoError(t, err)
		assert.InDelta(t, 1200.5, income, 0)

		age, err := agent.AgeValue()
		require.NoError(t, err)
		assert.Equal(t, 7, age)
	})

	t.Run("error - non numeric agreeableness", func(t *testing.T) {
		t.Parallel()
		agent, err := models.NewAgent(pos, map[string]any{"agreeableness": "friendly"})

		require.Nil(t, agent)
		require.ErrorIs(t, err, models.ErrInvalidField)
		assert.ErrorContains(t, err, "agreeableness")
	})

	t.Run("error - fractional age", func(t *testing.T) {
		t.Parallel()
		agent, err := models.NewAgent(pos, map[string]any{"age": 12.5})

		require.Nil(t, agent)
		require.ErrorIs(t, err, models.ErrInvalidField)
	})
}
