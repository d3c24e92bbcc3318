package dataload_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/medalists/crud/crudtest"
	"github.com/rise-and-shine/medalists/dataload"
	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/repogen"
)

type memRepos struct {
	teams    *crudtest.MemRepo[model.Team, repogen.Payload]
	sports   *crudtest.MemRepo[model.Sport, repogen.Payload]
	events   *crudtest.MemRepo[model.Event, repogen.Payload]
	games    *crudtest.MemRepo[model.Game, repogen.Payload]
	athletes *crudtest.MemRepo[model.Athlete, repogen.Payload]
	medals   *crudtest.MemRepo[model.Medal, repogen.Payload]
}

func newMemRepos() memRepos {
	var r memRepos

	r.teams = crudtest.NewMemRepo[model.Team, repogen.Payload](model.Teams,
		func(t *model.Team, id int64) { t.ID = id }, nil,
	).Unique(func(t *model.Team) string { return t.Region + "/" + t.NOC })

	r.sports = crudtest.NewMemRepo[model.Sport, repogen.Payload](model.Sports,
		func(s *model.Sport, id int64) { s.ID = id }, nil,
	).Unique(func(s *model.Sport) string { return s.Name })

	r.events = crudtest.NewMemRepo[model.Event, repogen.Payload](model.Events,
		func(e *model.Event, id int64) { e.ID = id },
		crudtest.Ref("sport", r.sports),
	).Unique(func(e *model.Event) string { return e.Name })

	r.games = crudtest.NewMemRepo[model.Game, repogen.Payload](model.Games,
		func(g *model.Game, id int64) { g.ID = id }, nil,
	).Unique(func(g *model.Game) string { return strconv.Itoa(g.Year) + string(g.Season) })

	r.athletes = crudtest.NewMemRepo[model.Athlete, repogen.Payload](model.Athletes,
		func(a *model.Athlete, id int64) { a.ID = id },
		crudtest.Ref("team", r.teams),
	).Unique(func(a *model.Athlete) string { return a.Name })

	r.medals = crudtest.NewMemRepo[model.Medal, repogen.Payload](model.Medals,
		func(m *model.Medal, id int64) { m.ID = id },
		crudtest.Resolvers(
			crudtest.Ref("athlete", r.athletes),
			crudtest.Ref("game", r.games),
			crudtest.Ref("event", r.events),
		),
	)

	return r
}

func (r memRepos) repos() dataload.Repos {
	return dataload.Repos{
		Teams:    r.teams,
		Sports:   r.sports,
		Events:   r.events,
		Games:    r.games,
		Athletes: r.athletes,
		Medals:   r.medals,
	}
}

func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func dataset() map[string]string {
	return map[string]string{
		"teams.json": `[
			{"region": "France", "noc": "FRA"},
			{"region": "Japan", "noc": "JPN"},
			{"region": "France", "noc": "FRA"}
		]`,
		"sport.json": `[{"name": "Judo"}, {"name": "Athletics"}]`,
		"events.json": `[
			{"event": "Judo Men's Heavyweight", "sport": "Judo"},
			{"event": "Curling Men's Curling", "sport": "Curling"}
		]`,
		"games.json": `[
			{"year": "2012", "season": "Summer", "city": "London"},
			{"year": 1996, "season": "Summer", "city": "Atlanta"},
			{"year": "1800", "season": "Summer", "city": "Nowhere"},
			{"year": 1996.7, "season": "Summer", "city": "Atlanta"}
		]`,
		"athletes.json": `[
			{"name": "Teddy Riner", "sex": "M", "height": "204", "weight": "NA", "team": "FRA"},
			{"name": "Teddy Riner", "sex": "M", "height": "NA", "weight": "NA", "team": "FRA"},
			{"name": "Kohei Uchimura", "sex": "M", "height": "160", "weight": "54", "team": "JPN"},
			{"name": "Ghost", "sex": "M", "height": "NA", "weight": "NA", "team": "XXX"},
			{"name": "Tall", "sex": "M", "height": "very", "weight": "NA", "team": "FRA"},
			{"name": "Half", "sex": "F", "height": 180.5, "weight": 70.5, "team": "FRA"}
		]`,
		"medals.json": `[
			{"athlete": "Teddy Riner", "games": "2012 Summer", "event": "Judo Men's Heavyweight", "type": "Gold"},
			{"athlete": "Nobody", "games": "2012 Summer", "event": "Judo Men's Heavyweight", "type": "Gold"},
			{"athlete": "Teddy Riner", "games": "2012", "event": "Judo Men's Heavyweight", "type": "Gold"}
		]`,
	}
}

func TestLoad(t *testing.T) {
	mem := newMemRepos()
	loader := dataload.New(&crudtest.Tx{}, mem.repos())

	stats, err := loader.Load(t.Context(), writeDataset(t, dataset()))
	require.NoError(t, err)

	assert.Equal(t, []dataload.Stats{
		{File: "teams.json", Inserted: 2, Duplicates: 1},
		{File: "sport.json", Inserted: 2},
		{File: "events.json", Inserted: 1, Unresolved: 1},
		{File: "games.json", Inserted: 2, Invalid: 2},
		{File: "athletes.json", Inserted: 2, Duplicates: 1, Unresolved: 1, Invalid: 2},
		{File: "medals.json", Inserted: 1, Unresolved: 1, Invalid: 1},
	}, stats)

	riner, err := mem.athletes.Get(t.Context(), nil, 1)
	require.NoError(t, err)
	require.NotNil(t, riner)
	require.NotNil(t, riner.Height)
	assert.Equal(t, 204, *riner.Height)
	assert.Nil(t, riner.Weight)
	assert.Equal(t, "France", riner.Team.Region)

	gold, err := mem.medals.Get(t.Context(), nil, 1)
	require.NoError(t, err)
	require.NotNil(t, gold)
	assert.Equal(t, model.Gold, gold.Type)
	assert.Equal(t, "London", gold.Game.City)
}

func TestLoadMissingFile(t *testing.T) {
	files := dataset()
	delete(files, "games.json")

	loader := dataload.New(&crudtest.Tx{}, newMemRepos().repos())
	stats, err := loader.Load(t.Context(), writeDataset(t, files))

	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, dataload.CodeUnreadableFile), "got %v", err)
	assert.Len(t, stats, 3, "files before the missing one are loaded")
}

func TestLoadMalformedJSON(t *testing.T) {
	files := dataset()
	files["teams.json"] = `{"region": "France"`

	err := dataload.New(&crudtest.Tx{}, newMemRepos().repos()).
		Execute(t.Context(), dataload.Input{Dir: writeDataset(t, files)})

	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, dataload.CodeInvalidRecord), "got %v", err)
}

func TestLoadStopsOnStoreFailure(t *testing.T) {
	mem := newMemRepos()
	mem.sports.Err = errors.New("connection reset")

	stats, err := dataload.New(&crudtest.Tx{}, mem.repos()).Load(t.Context(), writeDataset(t, dataset()))
	require.Error(t, err)
	assert.Len(t, stats, 1)
}

func TestStatsTotal(t *testing.T) {
	s := dataload.Stats{Inserted: 3, Duplicates: 2, Unresolved: 1, Invalid: 4}
	assert.Equal(t, 10, s.Total())
}
