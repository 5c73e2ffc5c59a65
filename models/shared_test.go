package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOfDayJSON(t *testing.T) {
	b, err := json.Marshal(TimeOfDay(420))
	require.NoError(t, err)
	assert.Equal(t, `"07:00"`, string(b))

	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"13:45"`), &tod))
	assert.Equal(t, TimeOfDay(13*60+45), tod)

	// HH:MM:SS is the persisted form; accept it on the way in too.
	require.NoError(t, json.Unmarshal([]byte(`"09:30:00"`), &tod))
	assert.Equal(t, TimeOfDay(9*60+30), tod)

	for _, bad := range []string{`"25:00"`, `"09:61"`, `"9:00"`, `"morning"`, `42`} {
		err := json.Unmarshal([]byte(bad), &tod)
		assert.Error(t, err, "input %s should be rejected", bad)
	}
}

func TestTimeOfDayStorageFormOrdersLexicographically(t *testing.T) {
	// Storage-side range queries compare the persisted strings, so numeric
	// order and string order must agree across the whole day.
	prev := ""
	for m := 0; m < 24*60; m += 17 {
		_, raw, err := TimeOfDay(m).MarshalBSONValue()
		require.NoError(t, err)
		s := string(raw)
		assert.True(t, prev < s, "minute %d broke ordering", m)
		prev = s
	}
}

func TestAmountFromFloatRounds(t *testing.T) {
	a := AmountFromFloat(19.999)
	assert.Equal(t, "20", a.String())

	a = AmountFromFloat(10.005)
	assert.Equal(t, "10.01", a.String())

	a = AmountFromFloat(0.1)
	b := AmountFromFloat(0.2)
	assert.Equal(t, "0.3", a.Add(b.Decimal).String())
}
