package model_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/pg/pgtest"
	"github.com/rise-and-shine/medalists/repogen"
)

func TestEnumsUnmarshalText(t *testing.T) {
	var season model.Season
	require.NoError(t, season.UnmarshalText([]byte("Winter")))
	assert.Equal(t, model.Winter, season)
	require.Error(t, season.UnmarshalText([]byte("winter")))
	assert.Equal(t, model.Winter, season, "failed unmarshal must keep the previous value")

	var sex model.Sex
	require.NoError(t, sex.UnmarshalText([]byte("F")))
	assert.Equal(t, model.Female, sex)
	require.Error(t, sex.UnmarshalText([]byte("X")))

	var medal model.MedalType
	for _, mt := range model.MedalTypes() {
		require.NoError(t, medal.UnmarshalText([]byte(mt)))
		assert.Equal(t, mt, medal)
	}
	require.Error(t, medal.UnmarshalText([]byte("Platinum")))
}

func TestGamesBuild(t *testing.T) {
	tests := []struct {
		name     string
		payload  repogen.Payload
		wantCode string
		want     model.Game
	}{
		{
			name:    "first modern games",
			payload: repogen.Payload{"year": 1896, "season": "Summer", "city": "Athina"},
			want:    model.Game{Year: 1896, Season: model.Summer, City: "Athina"},
		},
		{
			name:    "year decoded from json",
			payload: repogen.Payload{"year": float64(2014), "season": model.Winter, "city": "Sochi"},
			want:    model.Game{Year: 2014, Season: model.Winter, City: "Sochi"},
		},
		{
			name:     "year before the first games",
			payload:  repogen.Payload{"year": 1895, "season": "Summer", "city": "Paris"},
			wantCode: model.CodeInvalidGameYear,
		},
		{
			name:     "unknown season",
			payload:  repogen.Payload{"year": 2000, "season": "Autumn", "city": "Sydney"},
			wantCode: repogen.CodeInvalidFieldValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := model.Games.Build(tt.payload)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errx.IsCodeIn(err, tt.wantCode), "got %v", err)
				assert.Equal(t, errx.T_Validation, errx.GetType(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Year, game.Year)
			assert.Equal(t, tt.want.Season, game.Season)
			assert.Equal(t, tt.want.City, game.City)
		})
	}
}

func TestAthletesBuild(t *testing.T) {
	team := &model.Team{ID: 7, Region: "Kazakhstan", NOC: "KAZ"}

	athlete, err := model.Athletes.Build(repogen.Payload{
		"name":   "Ilya Ilyin",
		"sex":    "M",
		"height": float64(174),
		"weight": 94,
		"team":   team,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ilya Ilyin", athlete.Name)
	assert.Equal(t, model.Male, athlete.Sex)
	require.NotNil(t, athlete.Height)
	assert.Equal(t, 174, *athlete.Height)
	require.NotNil(t, athlete.Weight)
	assert.InDelta(t, 94.0, *athlete.Weight, 0.001)
	assert.Same(t, team, athlete.Team)
	assert.Equal(t, int64(7), athlete.TeamID)

	t.Run("null measurements", func(t *testing.T) {
		a, err := model.Athletes.Build(repogen.Payload{"name": "X", "height": nil, "weight": nil})
		require.NoError(t, err)
		assert.Nil(t, a.Height)
		assert.Nil(t, a.Weight)
	})

	t.Run("unresolved team is rejected", func(t *testing.T) {
		_, err := model.Athletes.Build(repogen.Payload{"name": "X", "team": repogen.Payload{"noc": "KAZ"}})
		require.Error(t, err)
		assert.True(t, errx.IsCodeIn(err, repogen.CodeInvalidFieldValue))
	})
}

func TestSchemasDeclareReferences(t *testing.T) {
	refs := func(fields []repogen.Field[model.Medal]) []string {
		var out []string
		for _, f := range fields {
			if f.IsReference() {
				out = append(out, f.Name)
			}
		}
		return out
	}
	assert.Equal(t, []string{"athlete", "game", "event"}, refs(model.Medals.Fields()))

	f, ok := model.Athletes.Field("team")
	require.True(t, ok)
	assert.True(t, f.IsReference())
	assert.Equal(t, "team_id", f.Column)

	f2, ok := model.Athletes.Field("name")
	require.True(t, ok)
	assert.False(t, f2.IsReference())
}

func TestTablesSQL(t *testing.T) {
	db := pgtest.Offline(t)

	want := []struct {
		table     string
		fragments []string
	}{
		{"teams", []string{`CONSTRAINT "teams_region_noc_key" UNIQUE`}},
		{"sports", []string{`CONSTRAINT "sports_name_key" UNIQUE`}},
		{"events", []string{
			`CONSTRAINT "events_name_key" UNIQUE`,
			`FOREIGN KEY ("sport_id") REFERENCES "sports" ("id")`,
		}},
		{"games", []string{`CONSTRAINT "games_year_season_key" UNIQUE`}},
		{"athletes", []string{
			`CONSTRAINT "athletes_name_key" UNIQUE`,
			`FOREIGN KEY ("team_id") REFERENCES "teams" ("id")`,
		}},
		{"medals", []string{
			`CONSTRAINT "medals_podium_key" UNIQUE`,
			`FOREIGN KEY ("athlete_id") REFERENCES "athletes" ("id")`,
			`FOREIGN KEY ("game_id") REFERENCES "games" ("id")`,
			`FOREIGN KEY ("event_id") REFERENCES "events" ("id")`,
		}},
	}

	tables := model.Tables()
	require.Len(t, tables, len(want))

	for i, def := range tables {
		q := db.NewCreateTable().Model(def.Model).IfNotExists()
		for _, fk := range def.ForeignKeys {
			q = q.ForeignKey(fk)
		}
		sql := q.String()

		assert.Contains(t, sql, `CREATE TABLE IF NOT EXISTS "`+want[i].table+`"`)
		for _, fragment := range want[i].fragments {
			assert.Contains(t, sql, fragment)
		}
	}
}

func TestConflictCodesCoverConstraints(t *testing.T) {
	for _, constraint := range []string{
		"teams_region_noc_key",
		"athletes_name_key",
		"medals_podium_key",
		"medals_athlete_id_fkey",
	} {
		assert.NotEmpty(t, model.ConflictCodes[constraint], constraint)
	}
}
