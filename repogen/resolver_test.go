package repogen_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/pg/pgtest"
	"github.com/rise-and-shine/medalists/repogen"
)

func TestResolveLeavesLiteralsUntouched(t *testing.T) {
	db := pgtest.Offline(t)
	team := &model.Team{ID: 1, Region: "France", NOC: "FRA"}

	in := repogen.Payload{
		"name":    "Teddy Riner",
		"team":    team,
		"unknown": repogen.Payload{"noc": "FRA"},
	}

	out, err := repogen.Resolve(t.Context(), db, model.Athletes, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out["name"] = "changed"
	assert.Equal(t, "Teddy Riner", in["name"], "input payload must not be modified")
}

func TestResolveRejectsUnknownNaturalKey(t *testing.T) {
	db := pgtest.Offline(t)

	tests := []struct {
		name    string
		payload repogen.Payload
	}{
		{
			name:    "unknown key",
			payload: repogen.Payload{"team": repogen.Payload{"country": "France"}},
		},
		{
			name:    "plain map is treated as a reference",
			payload: repogen.Payload{"team": map[string]any{"noc": "FRA", "flag": "blue"}},
		},
		{
			name:    "empty reference",
			payload: repogen.Payload{"team": repogen.Payload{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repogen.Resolve(t.Context(), db, model.Athletes, tt.payload)
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, repogen.CodeUnknownReferenceKey), "got %v", err)
			assert.Equal(t, errx.T_Validation, errx.GetType(err))
		})
	}
}
