package repogen_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/repogen"
)

func TestSchemaSnapshot(t *testing.T) {
	height := 190
	team := &model.Team{ID: 3, Region: "France", NOC: "FRA"}
	athlete := &model.Athlete{ID: 1, Name: "Teddy Riner", Sex: model.Male, Height: &height, Team: team, TeamID: 3}

	snapshot := model.Athletes.Snapshot(athlete)

	assert.Equal(t, repogen.Payload{
		"name":   "Teddy Riner",
		"sex":    model.Male,
		"height": &height,
		"weight": (*float64)(nil),
		"team":   team,
	}, snapshot)
}

func TestSchemaAssign(t *testing.T) {
	newTeam := &model.Team{ID: 9, Region: "Japan", NOC: "JPN"}

	tests := []struct {
		name        string
		payload     repogen.Payload
		wantColumns []string
		check       func(t *testing.T, a *model.Athlete)
	}{
		{
			name:        "partial update touches only the given field",
			payload:     repogen.Payload{"name": "Renamed"},
			wantColumns: []string{"name"},
			check: func(t *testing.T, a *model.Athlete) {
				assert.Equal(t, "Renamed", a.Name)
				assert.Equal(t, model.Male, a.Sex)
				assert.Equal(t, int64(3), a.TeamID)
			},
		},
		{
			name:        "reference update sets relation and foreign key",
			payload:     repogen.Payload{"team": newTeam},
			wantColumns: []string{"team_id"},
			check: func(t *testing.T, a *model.Athlete) {
				assert.Same(t, newTeam, a.Team)
				assert.Equal(t, int64(9), a.TeamID)
				assert.Equal(t, "Teddy Riner", a.Name)
			},
		},
		{
			name:        "keys outside the schema are ignored",
			payload:     repogen.Payload{"id": 100, "country": "Japan"},
			wantColumns: []string{},
			check: func(t *testing.T, a *model.Athlete) {
				assert.Equal(t, int64(1), a.ID)
			},
		},
		{
			name:        "explicit null clears an optional field",
			payload:     repogen.Payload{"height": nil, "weight": 140.5},
			wantColumns: []string{"height", "weight"},
			check: func(t *testing.T, a *model.Athlete) {
				assert.Nil(t, a.Height)
				require.NotNil(t, a.Weight)
				assert.InDelta(t, 140.5, *a.Weight, 0.001)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			height := 204
			athlete := &model.Athlete{
				ID:     1,
				Name:   "Teddy Riner",
				Sex:    model.Male,
				Height: &height,
				TeamID: 3,
				Team:   &model.Team{ID: 3, Region: "France", NOC: "FRA"},
			}

			columns, err := model.Athletes.Assign(athlete, tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, columns)
			tt.check(t, athlete)
		})
	}
}

func TestSchemaAssignRejectsInvalidValue(t *testing.T) {
	tests := []struct {
		name    string
		payload repogen.Payload
		field   string
	}{
		{name: "unknown sex", payload: repogen.Payload{"sex": "Z"}, field: "sex"},
		{name: "fractional height", payload: repogen.Payload{"height": 180.5}, field: "height"},
		{name: "fractional height as string", payload: repogen.Payload{"height": "180.5"}, field: "height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			athlete := &model.Athlete{Name: "A", Sex: model.Female}

			_, err := model.Athletes.Assign(athlete, tt.payload)
			require.Error(t, err)

			e := errx.AsErrorX(err)
			assert.Equal(t, repogen.CodeInvalidFieldValue, e.Code())
			assert.Contains(t, e.Fields(), tt.field)
			assert.Nil(t, athlete.Height)
		})
	}
}

func TestSchemaAssignRejectsFractionalYear(t *testing.T) {
	game := &model.Game{Year: 2000, Season: model.Summer, City: "Sydney"}

	_, err := model.Games.Assign(game, repogen.Payload{"year": 1996.7})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, repogen.CodeInvalidFieldValue), "got %v", err)
	assert.Equal(t, 2000, game.Year)
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{name: "int", value: 204, want: 204},
		{name: "whole float", value: 180.0, want: 180},
		{name: "numeric string", value: "1996", want: 1996},
		{name: "fractional float", value: 180.5, wantErr: true},
		{name: "fractional float32", value: float32(1.5), wantErr: true},
		{name: "fractional string", value: "180.5", wantErr: true},
		{name: "not a number", value: "tall", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repogen.ToInt(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemaValidatorRunsOnAssign(t *testing.T) {
	game := &model.Game{Year: 2000, Season: model.Summer, City: "Sydney"}

	_, err := model.Games.Assign(game, repogen.Payload{"year": 1800})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, model.CodeInvalidGameYear))
}

func TestNewSchemaPanicsOnDuplicateField(t *testing.T) {
	assert.Panics(t, func() {
		repogen.NewSchema("Team", "teams", "team",
			func(t *model.Team) int64 { return t.ID },
			repogen.Column("noc", "noc", func(t *model.Team) *string { return &t.NOC }),
			repogen.Column("noc", "region", func(t *model.Team) *string { return &t.Region }),
		)
	})
}

func TestSchemaColumn(t *testing.T) {
	column, ok := model.Medals.Column("medal")
	require.True(t, ok)
	assert.Equal(t, "medal", column)

	column, ok = model.Medals.Column("athlete")
	require.True(t, ok)
	assert.Equal(t, "athlete_id", column)

	_, ok = model.Medals.Column("podium")
	assert.False(t, ok)
}
