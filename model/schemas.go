package model

import (
	"fmt"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/repogen"
)

const (
	// FirstGamesYear is the year of the first modern Olympic games.
	FirstGamesYear = 1896

	CodeInvalidGameYear = "INVALID_GAME_YEAR"
)

// Field accessor tables of every entity.
//
//nolint:gochecknoglobals // schemas are immutable after package initialization
var (
	Teams = repogen.NewSchema("Team", "teams", "team",
		func(t *Team) int64 { return t.ID },
		repogen.Column("noc", "noc", func(t *Team) *string { return &t.NOC }),
		repogen.Column("region", "region", func(t *Team) *string { return &t.Region }),
	)

	Sports = repogen.NewSchema("Sport", "sports", "sport",
		func(s *Sport) int64 { return s.ID },
		repogen.Column("name", "name", func(s *Sport) *string { return &s.Name }),
	)

	Events = repogen.NewSchema("Event", "events", "event",
		func(e *Event) int64 { return e.ID },
		repogen.Column("name", "name", func(e *Event) *string { return &e.Name }),
		repogen.BelongsTo("sport", "sport_id", Sports,
			func(e *Event) **Sport { return &e.Sport },
			func(e *Event) *int64 { return &e.SportID },
		),
	).WithEager("Sport")

	Games = repogen.NewSchema("Game", "games", "game",
		func(g *Game) int64 { return g.ID },
		repogen.Column("year", "year", func(g *Game) *int { return &g.Year }),
		repogen.Column("season", "season", func(g *Game) *Season { return &g.Season }),
		repogen.Column("city", "city", func(g *Game) *string { return &g.City }),
	).WithValidator(validateGame)

	Athletes = repogen.NewSchema("Athlete", "athletes", "athlete",
		func(a *Athlete) int64 { return a.ID },
		repogen.Column("name", "name", func(a *Athlete) *string { return &a.Name }),
		repogen.Column("sex", "sex", func(a *Athlete) *Sex { return &a.Sex }),
		repogen.Column("height", "height", func(a *Athlete) **int { return &a.Height }),
		repogen.Column("weight", "weight", func(a *Athlete) **float64 { return &a.Weight }),
		repogen.BelongsTo("team", "team_id", Teams,
			func(a *Athlete) **Team { return &a.Team },
			func(a *Athlete) *int64 { return &a.TeamID },
		),
	).WithEager("Team", "Medals", "Medals.Game", "Medals.Event", "Medals.Event.Sport")

	Medals = repogen.NewSchema("Medal", "medals", "medal",
		func(m *Medal) int64 { return m.ID },
		repogen.BelongsTo("athlete", "athlete_id", Athletes,
			func(m *Medal) **Athlete { return &m.Athlete },
			func(m *Medal) *int64 { return &m.AthleteID },
		),
		repogen.BelongsTo("game", "game_id", Games,
			func(m *Medal) **Game { return &m.Game },
			func(m *Medal) *int64 { return &m.GameID },
		),
		repogen.BelongsTo("event", "event_id", Events,
			func(m *Medal) **Event { return &m.Event },
			func(m *Medal) *int64 { return &m.EventID },
		),
		repogen.Column("medal", "medal", func(m *Medal) *MedalType { return &m.Type }),
	).WithEager("Athlete", "Athlete.Team", "Game", "Event", "Event.Sport")
)

// Relations list queries may join.
//
//nolint:gochecknoglobals // relations are immutable after package initialization
var (
	AthleteTeam  = repogen.NewRelation("Team", Teams)
	MedalAthlete = repogen.NewRelation("Athlete", Athletes)
	MedalGame    = repogen.NewRelation("Game", Games)
	MedalEvent   = repogen.NewRelation("Event", Events)
)

// ConflictCodes maps constraint names to the error codes reported when a write
// breaks them.
//
//nolint:gochecknoglobals // read-only lookup table
var ConflictCodes = map[string]string{
	"teams_region_noc_key":  "TEAM_ALREADY_EXISTS",
	"sports_name_key":       "SPORT_ALREADY_EXISTS",
	"events_name_key":       "EVENT_ALREADY_EXISTS",
	"games_year_season_key": "GAME_ALREADY_EXISTS",
	"athletes_name_key":     "ATHLETE_ALREADY_EXISTS",
	"medals_podium_key":     "MEDAL_ALREADY_EXISTS",

	"events_sport_id_fkey":   "SPORT_HAS_EVENTS",
	"athletes_team_id_fkey":  "TEAM_HAS_ATHLETES",
	"medals_athlete_id_fkey": "ATHLETE_HAS_MEDALS",
	"medals_game_id_fkey":    "GAME_HAS_MEDALS",
	"medals_event_id_fkey":   "EVENT_HAS_MEDALS",
}

func validateGame(g *Game) error {
	if g.Year < FirstGamesYear {
		return errx.New(
			fmt.Sprintf("year %d is before the first modern games", g.Year),
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidGameYear),
			errx.WithFields(errx.M{"year": fmt.Sprintf("Must be %d or later", FirstGamesYear)}),
		)
	}
	return nil
}
