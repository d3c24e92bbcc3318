// Package model declares the persisted entities of the medalists service and
// the tables backing them.
package model

import (
	"github.com/rise-and-shine/medalists/pg"
	"github.com/uptrace/bun"
)

// Team is a national team taking part in the games.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:team"`
	pg.Timestamps

	ID     int64  `bun:"id,pk,autoincrement"`
	Region string `bun:"region,type:varchar(50),notnull,unique:teams_region_noc_key"`
	NOC    string `bun:"noc,type:varchar(3),notnull,unique:teams_region_noc_key"`

	Athletes []*Athlete `bun:"rel:has-many,join:id=team_id"`
}

type Sport struct {
	bun.BaseModel `bun:"table:sports,alias:sport"`
	pg.Timestamps

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,type:varchar(50),notnull,unique:sports_name_key"`

	Events []*Event `bun:"rel:has-many,join:id=sport_id"`
}

// Event is a single competition of a sport, e.g. "Swimming Men's 100 metres Freestyle".
type Event struct {
	bun.BaseModel `bun:"table:events,alias:event"`
	pg.Timestamps

	ID      int64  `bun:"id,pk,autoincrement"`
	Name    string `bun:"name,type:varchar(100),notnull,unique:events_name_key"`
	SportID int64  `bun:"sport_id,notnull"`

	Sport *Sport `bun:"rel:belongs-to,join:sport_id=id"`
}

// Game is one edition of the Olympic games.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:game"`
	pg.Timestamps

	ID     int64  `bun:"id,pk,autoincrement"`
	Year   int    `bun:"year,notnull,unique:games_year_season_key"`
	Season Season `bun:"season,type:varchar(6),notnull,unique:games_year_season_key"`
	City   string `bun:"city,type:varchar(50),notnull"`
}

type Athlete struct {
	bun.BaseModel `bun:"table:athletes,alias:athlete"`
	pg.Timestamps

	ID     int64    `bun:"id,pk,autoincrement"`
	Name   string   `bun:"name,type:varchar(100),notnull,unique:athletes_name_key"`
	Sex    Sex      `bun:"sex,type:varchar(1),notnull"`
	Height *int     `bun:"height"`
	Weight *float64 `bun:"weight"`
	TeamID int64    `bun:"team_id,notnull"`

	Team   *Team    `bun:"rel:belongs-to,join:team_id=id"`
	Medals []*Medal `bun:"rel:has-many,join:id=athlete_id"`
}

// Medal awarded to an athlete for an event of a game.
type Medal struct {
	bun.BaseModel `bun:"table:medals,alias:medal"`
	pg.Timestamps

	ID        int64     `bun:"id,pk,autoincrement"`
	AthleteID int64     `bun:"athlete_id,notnull,unique:medals_podium_key"`
	GameID    int64     `bun:"game_id,notnull,unique:medals_podium_key"`
	EventID   int64     `bun:"event_id,notnull,unique:medals_podium_key"`
	Type      MedalType `bun:"medal,type:varchar(6),notnull,unique:medals_podium_key"`

	Athlete *Athlete `bun:"rel:belongs-to,join:athlete_id=id"`
	Game    *Game    `bun:"rel:belongs-to,join:game_id=id"`
	Event   *Event   `bun:"rel:belongs-to,join:event_id=id"`
}

// Tables returns the table definitions in creation order.
func Tables() []pg.TableDef {
	return []pg.TableDef{
		{Model: (*Team)(nil)},
		{Model: (*Sport)(nil)},
		{
			Model:       (*Event)(nil),
			ForeignKeys: []string{`("sport_id") REFERENCES "sports" ("id")`},
		},
		{Model: (*Game)(nil)},
		{
			Model:       (*Athlete)(nil),
			ForeignKeys: []string{`("team_id") REFERENCES "teams" ("id")`},
		},
		{
			Model: (*Medal)(nil),
			ForeignKeys: []string{
				`("athlete_id") REFERENCES "athletes" ("id")`,
				`("game_id") REFERENCES "games" ("id")`,
				`("event_id") REFERENCES "events" ("id")`,
			},
		},
	}
}
