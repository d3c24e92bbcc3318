package medal

import (
	"github.com/rise-and-shine/medalists/crud"
	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/pagination"
	"github.com/rise-and-shine/medalists/repogen"
)

// AthleteRef references an existing athlete by name.
type AthleteRef struct {
	Name string `json:"name" validate:"required,max=100"`
}

// GameRef references an existing game by year and season.
type GameRef struct {
	Year   int    `json:"year" validate:"required,gte=1896"`
	Season string `json:"season" validate:"required,oneof=Summer Winter"`
}

// EventRef references an existing event by name.
type EventRef struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (r AthleteRef) payload() repogen.Payload { return repogen.Payload{"name": r.Name} }

func (r GameRef) payload() repogen.Payload {
	return repogen.Payload{"year": r.Year, "season": r.Season}
}

func (r EventRef) payload() repogen.Payload { return repogen.Payload{"name": r.Name} }

// CreateRequest is the body of POST /medals.
type CreateRequest struct {
	Athlete AthleteRef `json:"athlete" validate:"required"`
	Game    GameRef    `json:"game" validate:"required"`
	Event   EventRef   `json:"event" validate:"required"`
	Medal   string     `json:"medal" validate:"required,oneof=Gold Silver Bronze"`
}

// Fields implements repogen.Input.
func (r CreateRequest) Fields() repogen.Payload {
	return repogen.Payload{
		"athlete": r.Athlete.payload(),
		"game":    r.Game.payload(),
		"event":   r.Event.payload(),
		"medal":   r.Medal,
	}
}

// UpdateRequest is the body of PUT /medals/:id. Fields left out of the body
// keep their stored value.
type UpdateRequest struct {
	crud.IDRequest

	Athlete *AthleteRef `json:"athlete"`
	Game    *GameRef    `json:"game"`
	Event   *EventRef   `json:"event"`
	Medal   *string     `json:"medal" validate:"omitempty,oneof=Gold Silver Bronze"`
}

// Fields implements repogen.Input with the fields present in the body.
func (r UpdateRequest) Fields() repogen.Payload {
	p := repogen.Payload{}
	if r.Athlete != nil {
		p["athlete"] = r.Athlete.payload()
	}
	if r.Game != nil {
		p["game"] = r.Game.payload()
	}
	if r.Event != nil {
		p["event"] = r.Event.payload()
	}
	if r.Medal != nil {
		p["medal"] = *r.Medal
	}
	return p
}

// ListRequest holds the query of GET /medals.
type ListRequest struct {
	pagination.Params

	Medal string `query:"medal" validate:"omitempty,oneof=Gold Silver Bronze"`
	// Athlete matches athlete names case and whitespace insensitively.
	Athlete string `query:"athlete" validate:"max=100"`
	// Event matches event names case and whitespace insensitively.
	Event string `query:"event" validate:"max=100"`
	Year  int    `query:"year" validate:"omitempty,gte=1896"`
	// Sort is a sort string over medal, e.g. "medal:asc".
	Sort string `query:"sort"`
}

type Team struct {
	Region string `json:"region"`
	NOC    string `json:"noc"`
}

// Athlete is the medalist in responses.
type Athlete struct {
	Name string `json:"name"`
	Team Team   `json:"team"`
}

type Game struct {
	Year   int    `json:"year"`
	Season string `json:"season"`
	City   string `json:"city"`
}

type Sport struct {
	Name string `json:"name"`
}

type Event struct {
	Name  string `json:"name"`
	Sport Sport  `json:"sport"`
}

// Response is a medal with its athlete, game and event.
type Response struct {
	ID      int64   `json:"id"`
	Athlete Athlete `json:"athlete"`
	Game    Game    `json:"game"`
	Event   Event   `json:"event"`
	Medal   string  `json:"medal"`
}

// ListResponse is the body of GET /medals.
type ListResponse struct {
	Results []Response `json:"results"`
}

func toResponse(m *model.Medal) Response {
	resp := Response{ID: m.ID, Medal: string(m.Type)}

	if a := m.Athlete; a != nil {
		resp.Athlete.Name = a.Name
		if a.Team != nil {
			resp.Athlete.Team = Team{Region: a.Team.Region, NOC: a.Team.NOC}
		}
	}
	if g := m.Game; g != nil {
		resp.Game = Game{Year: g.Year, Season: string(g.Season), City: g.City}
	}
	if e := m.Event; e != nil {
		resp.Event.Name = e.Name
		if e.Sport != nil {
			resp.Event.Sport.Name = e.Sport.Name
		}
	}

	return resp
}
