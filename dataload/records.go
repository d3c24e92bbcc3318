package dataload

import (
	"strings"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/repogen"
	"github.com/spf13/cast"
)

// notAvailable marks a missing measurement in the dataset.
const notAvailable = "NA"

// record is one element of a dataset file.
type record interface {
	payload() (repogen.Payload, error)
}

type teamRecord struct {
	Region string `json:"region"`
	NOC    string `json:"noc"`
}

func (r teamRecord) payload() (repogen.Payload, error) {
	return repogen.Payload{"region": r.Region, "noc": r.NOC}, nil
}

type sportRecord struct {
	Name string `json:"name"`
}

func (r sportRecord) payload() (repogen.Payload, error) {
	return repogen.Payload{"name": r.Name}, nil
}

type eventRecord struct {
	Event string `json:"event"`
	Sport string `json:"sport"`
}

func (r eventRecord) payload() (repogen.Payload, error) {
	return repogen.Payload{
		"name":  r.Event,
		"sport": repogen.Payload{"name": r.Sport},
	}, nil
}

type gameRecord struct {
	// Year is a number or a numeric string.
	Year   any    `json:"year"`
	Season string `json:"season"`
	City   string `json:"city"`
}

func (r gameRecord) payload() (repogen.Payload, error) {
	year, err := repogen.ToInt(r.Year)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeInvalidRecord), errx.WithDetails(errx.D{"year": r.Year}))
	}
	return repogen.Payload{"year": year, "season": r.Season, "city": r.City}, nil
}

type athleteRecord struct {
	Name   string `json:"name"`
	Sex    string `json:"sex"`
	Height any    `json:"height"`
	Weight any    `json:"weight"`
	// Team is the NOC code of the athlete's team.
	Team string `json:"team"`
}

func (r athleteRecord) payload() (repogen.Payload, error) {
	height, err := measurement(r.Height, repogen.ToInt)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"height": r.Height}))
	}
	weight, err := measurement(r.Weight, cast.ToFloat64E)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"weight": r.Weight}))
	}

	return repogen.Payload{
		"name":   r.Name,
		"sex":    r.Sex,
		"height": height,
		"weight": weight,
		"team":   repogen.Payload{"noc": r.Team},
	}, nil
}

type medalRecord struct {
	Athlete string `json:"athlete"`
	// Games is the year and season of the game, e.g. "2000 Summer".
	Games string `json:"games"`
	Event string `json:"event"`
	Type  string `json:"type"`
}

func (r medalRecord) payload() (repogen.Payload, error) {
	parts := strings.Fields(r.Games)
	if len(parts) != 2 {
		return nil, errx.New(
			"games must be formatted as \"<year> <season>\"",
			errx.WithCode(CodeInvalidRecord),
			errx.WithDetails(errx.D{"games": r.Games}),
		)
	}

	year, err := repogen.ToInt(parts[0])
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeInvalidRecord), errx.WithDetails(errx.D{"games": r.Games}))
	}

	return repogen.Payload{
		"athlete": repogen.Payload{"name": r.Athlete},
		"game":    repogen.Payload{"year": year, "season": parts[1]},
		"event":   repogen.Payload{"name": r.Event},
		"medal":   r.Type,
	}, nil
}

// measurement converts v with conv. Absent values and "NA" are null.
func measurement[T any](v any, conv func(any) (T, error)) (*T, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && (s == notAvailable || strings.TrimSpace(s) == "") {
		return nil, nil
	}

	n, err := conv(v)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeInvalidRecord))
	}
	return &n, nil
}
