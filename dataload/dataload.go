// Package dataload bulk loads the Olympic dataset from JSON files into the
// database. Every record is inserted in its own transaction; duplicates and
// records referencing missing entities are skipped and counted.
package dataload

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/crud"
	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/observability/logger"
	"github.com/rise-and-shine/medalists/repogen"
	"github.com/rise-and-shine/medalists/ucdef"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
)

const (
	CodeInvalidRecord  = "INVALID_RECORD"
	CodeUnreadableFile = "UNREADABLE_FILE"
)

// Input of the load command.
type Input struct {
	// Dir holds teams.json, sport.json, events.json, games.json,
	// athletes.json and medals.json.
	Dir string `validate:"required"`
}

// Repos are the repositories records are inserted through.
type Repos struct {
	Teams    repogen.Repo[model.Team, repogen.Payload]
	Sports   repogen.Repo[model.Sport, repogen.Payload]
	Events   repogen.Repo[model.Event, repogen.Payload]
	Games    repogen.Repo[model.Game, repogen.Payload]
	Athletes repogen.Repo[model.Athlete, repogen.Payload]
	Medals   repogen.Repo[model.Medal, repogen.Payload]
}

// NewPgRepos returns Repos backed by PostgreSQL.
func NewPgRepos() Repos {
	return Repos{
		Teams:    repogen.NewPgRepo[model.Team, repogen.Payload](model.Teams, model.ConflictCodes),
		Sports:   repogen.NewPgRepo[model.Sport, repogen.Payload](model.Sports, model.ConflictCodes),
		Events:   repogen.NewPgRepo[model.Event, repogen.Payload](model.Events, model.ConflictCodes),
		Games:    repogen.NewPgRepo[model.Game, repogen.Payload](model.Games, model.ConflictCodes),
		Athletes: repogen.NewPgRepo[model.Athlete, repogen.Payload](model.Athletes, model.ConflictCodes),
		Medals:   repogen.NewPgRepo[model.Medal, repogen.Payload](model.Medals, model.ConflictCodes),
	}
}

// Stats counts the outcome of the records of one file.
type Stats struct {
	File       string `json:"file"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Unresolved int    `json:"unresolved"`
	Invalid    int    `json:"invalid"`
}

// Total returns the number of records read from the file.
func (s Stats) Total() int {
	return s.Inserted + s.Duplicates + s.Unresolved + s.Invalid
}

type step struct {
	file   string
	parse  func(raw []byte) ([]repogen.Payload, int, error)
	create func(ctx context.Context, idb bun.IDB, p repogen.Payload) error
}

func newStep[R record, E any](file string, repo repogen.Repo[E, repogen.Payload]) step {
	return step{
		file:  file,
		parse: parseRecords[R],
		create: func(ctx context.Context, idb bun.IDB, p repogen.Payload) error {
			_, err := repo.Create(ctx, idb, p)
			return err
		},
	}
}

// Loader is the manual command loading a dataset directory.
type Loader struct {
	db    crud.TxRunner
	steps []step
}

var _ ucdef.ManualCommand[Input] = (*Loader)(nil)

// New creates a Loader. Files are loaded so that every referenced entity is
// inserted before the records referencing it.
func New(db crud.TxRunner, repos Repos) *Loader {
	return &Loader{
		db: db,
		steps: []step{
			newStep[teamRecord]("teams.json", repos.Teams),
			newStep[sportRecord]("sport.json", repos.Sports),
			newStep[eventRecord]("events.json", repos.Events),
			newStep[gameRecord]("games.json", repos.Games),
			newStep[athleteRecord]("athletes.json", repos.Athletes),
			newStep[medalRecord]("medals.json", repos.Medals),
		},
	}
}

func (l *Loader) OperationID() string { return "dataload.load" }

func (l *Loader) Execute(ctx context.Context, in Input) error {
	_, err := l.Load(ctx, in.Dir)
	return err
}

// Load loads every file of dir and returns the statistics per file. It stops
// at the first missing file or store failure other than a skipped record.
func (l *Loader) Load(ctx context.Context, dir string) ([]Stats, error) {
	log := logger.Named("dataload").WithContext(ctx)

	all := make([]Stats, 0, len(l.steps))
	for _, s := range l.steps {
		stats, err := l.loadFile(ctx, dir, s)
		if err != nil {
			return all, errx.Wrap(err, errx.WithDetails(errx.D{"file": s.file}))
		}

		log.With(
			"file", stats.File,
			"inserted", stats.Inserted,
			"duplicates", stats.Duplicates,
			"unresolved", stats.Unresolved,
			"invalid", stats.Invalid,
		).Info("file loaded")
		all = append(all, stats)
	}

	log.With("records", lo.SumBy(all, Stats.Total)).Info("dataset loaded")
	return all, nil
}

func (l *Loader) loadFile(ctx context.Context, dir string, s step) (Stats, error) {
	stats := Stats{File: s.file}

	raw, err := os.ReadFile(filepath.Join(dir, s.file))
	if err != nil {
		return stats, errx.Wrap(err, errx.WithCode(CodeUnreadableFile))
	}

	payloads, invalid, err := s.parse(raw)
	if err != nil {
		return stats, errx.Wrap(err)
	}
	stats.Invalid = invalid

	for _, p := range payloads {
		err = l.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return s.create(ctx, tx, p)
		})

		switch {
		case err == nil:
			stats.Inserted++
		case errx.IsCodeIn(err, repogen.CodeRelatedEntityNotFound):
			stats.Unresolved++
		case errx.GetType(err) == errx.T_Conflict:
			stats.Duplicates++
		case errx.GetType(err) == errx.T_Validation:
			stats.Invalid++
		default:
			return stats, errx.Wrap(err)
		}
	}

	return stats, nil
}

// parseRecords decodes a JSON array of R. Elements that cannot be converted
// are skipped and counted.
func parseRecords[R record](raw []byte) ([]repogen.Payload, int, error) {
	var records []R
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, 0, errx.Wrap(err, errx.WithCode(CodeInvalidRecord))
	}

	payloads := make([]repogen.Payload, 0, len(records))
	invalid := 0
	for _, r := range records {
		p, err := r.payload()
		if err != nil {
			logger.Named("dataload").Warnx(err)
			invalid++
			continue
		}
		payloads = append(payloads, p)
	}

	return payloads, invalid, nil
}
