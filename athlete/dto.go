package athlete

import (
	"github.com/rise-and-shine/medalists/crud"
	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/pagination"
	"github.com/rise-and-shine/medalists/repogen"
)

// TeamRef references an existing team by its NOC code.
type TeamRef struct {
	NOC string `json:"noc" validate:"required,noc"`
}

// CreateRequest is the body of POST /athletes.
type CreateRequest struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Sex    string   `json:"sex" validate:"required,oneof=M F"`
	Height *int     `json:"height" validate:"omitempty,gt=0"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0"`
	Team   TeamRef  `json:"team" validate:"required"`
}

// Fields implements repogen.Input.
func (r CreateRequest) Fields() repogen.Payload {
	return repogen.Payload{
		"name":   r.Name,
		"sex":    r.Sex,
		"height": r.Height,
		"weight": r.Weight,
		"team":   repogen.Payload{"noc": r.Team.NOC},
	}
}

// UpdateRequest is the body of PUT /athletes/:id. Fields left out of the body
// keep their stored value.
type UpdateRequest struct {
	crud.IDRequest

	Name   *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Sex    *string  `json:"sex" validate:"omitempty,oneof=M F"`
	Height *int     `json:"height" validate:"omitempty,gt=0"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0"`
	Team   *TeamRef `json:"team"`
}

// Fields implements repogen.Input with the fields present in the body.
func (r UpdateRequest) Fields() repogen.Payload {
	p := repogen.Payload{}
	if r.Name != nil {
		p["name"] = *r.Name
	}
	if r.Sex != nil {
		p["sex"] = *r.Sex
	}
	if r.Height != nil {
		p["height"] = r.Height
	}
	if r.Weight != nil {
		p["weight"] = r.Weight
	}
	if r.Team != nil {
		p["team"] = repogen.Payload{"noc": r.Team.NOC}
	}
	return p
}

// ListRequest holds the query of GET /athletes.
type ListRequest struct {
	pagination.Params

	// Name matches athlete names case and whitespace insensitively.
	Name string `query:"name" validate:"max=100"`
	// Country matches the team region exactly.
	Country string `query:"country" validate:"max=50"`
	// Sort is a sort string over name, height and weight, e.g. "height:desc".
	Sort string `query:"sort"`
}

// Team is the team of an athlete in responses.
type Team struct {
	NOC    string `json:"noc"`
	Region string `json:"region"`
}

// Game is a game in responses.
type Game struct {
	Year   int    `json:"year"`
	Season string `json:"season"`
	City   string `json:"city"`
}

// Sport is a sport in responses.
type Sport struct {
	Name string `json:"name"`
}

// Event is an event with its sport in responses.
type Event struct {
	Name  string `json:"name"`
	Sport Sport  `json:"sport"`
}

// Medal is a medal of an athlete in responses.
type Medal struct {
	Game  Game   `json:"game"`
	Event Event  `json:"event"`
	Medal string `json:"medal"`
}

// Response is an athlete with its team and medals.
type Response struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Sex    string   `json:"sex"`
	Height *int     `json:"height"`
	Weight *float64 `json:"weight"`
	Team   Team     `json:"team"`
	Medals []Medal  `json:"medals"`
}

// ListResponse is the body of GET /athletes.
type ListResponse struct {
	Results []Response `json:"results"`
}

func toResponse(a *model.Athlete) Response {
	resp := Response{
		ID:     a.ID,
		Name:   a.Name,
		Sex:    string(a.Sex),
		Height: a.Height,
		Weight: a.Weight,
		Medals: make([]Medal, 0, len(a.Medals)),
	}
	if a.Team != nil {
		resp.Team = Team{NOC: a.Team.NOC, Region: a.Team.Region}
	}

	for _, m := range a.Medals {
		medal := Medal{Medal: string(m.Type)}
		if m.Game != nil {
			medal.Game = Game{Year: m.Game.Year, Season: string(m.Game.Season), City: m.Game.City}
		}
		if m.Event != nil {
			medal.Event.Name = m.Event.Name
			if m.Event.Sport != nil {
				medal.Event.Sport.Name = m.Event.Sport.Name
			}
		}
		resp.Medals = append(resp.Medals, medal)
	}

	return resp
}
