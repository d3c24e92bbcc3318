// Package medal exposes medals over HTTP. Medals reference their athlete, game
// and event by natural key in request bodies.
package medal

import (
	"context"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/crud"
	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/repogen"
	"github.com/rise-and-shine/medalists/sorter"
	"github.com/rise-and-shine/medalists/ucdef"
)

// Service is the storage facing side of the medal use cases.
type Service interface {
	Create(ctx context.Context, in CreateRequest) (*model.Medal, error)
	Get(ctx context.Context, id int64) (*model.Medal, error)
	Update(ctx context.Context, id int64, in repogen.Input) (*model.Medal, error)
	Delete(ctx context.Context, id int64) (*model.Medal, error)
	List(ctx context.Context, q repogen.ListQuery) ([]model.Medal, error)
}

var _ Service = (*crud.Service[model.Medal, CreateRequest])(nil)

var sortable = []string{"medal"} //nolint:gochecknoglobals // read-only

type createUC struct{ svc Service }

func NewCreate(svc Service) ucdef.UserAction[*CreateRequest, Response] {
	return &createUC{svc: svc}
}

func (uc *createUC) OperationID() string { return "medal.create" }

func (uc *createUC) Execute(ctx context.Context, in *CreateRequest) (Response, error) {
	m, err := uc.svc.Create(ctx, *in)
	if err != nil {
		return Response{}, errx.Wrap(err)
	}
	return toResponse(m), nil
}

type getUC struct{ svc Service }

func NewGet(svc Service) ucdef.UserAction[*crud.IDRequest, Response] {
	return &getUC{svc: svc}
}

func (uc *getUC) OperationID() string { return "medal.get" }

func (uc *getUC) Execute(ctx context.Context, in *crud.IDRequest) (Response, error) {
	m, err := uc.svc.Get(ctx, in.ID)
	if err != nil {
		return Response{}, errx.Wrap(err)
	}
	return toResponse(m), nil
}

type updateUC struct{ svc Service }

func NewUpdate(svc Service) ucdef.UserAction[*UpdateRequest, Response] {
	return &updateUC{svc: svc}
}

func (uc *updateUC) OperationID() string { return "medal.update" }

func (uc *updateUC) Execute(ctx context.Context, in *UpdateRequest) (Response, error) {
	m, err := uc.svc.Update(ctx, in.ID, *in)
	if err != nil {
		return Response{}, errx.Wrap(err)
	}
	return toResponse(m), nil
}

type deleteUC struct{ svc Service }

func NewDelete(svc Service) ucdef.UserAction[*crud.IDRequest, Response] {
	return &deleteUC{svc: svc}
}

func (uc *deleteUC) OperationID() string { return "medal.delete" }

func (uc *deleteUC) Execute(ctx context.Context, in *crud.IDRequest) (Response, error) {
	m, err := uc.svc.Delete(ctx, in.ID)
	if err != nil {
		return Response{}, errx.Wrap(err)
	}
	return toResponse(m), nil
}

type listUC struct{ svc Service }

func NewList(svc Service) ucdef.UserAction[*ListRequest, ListResponse] {
	return &listUC{svc: svc}
}

func (uc *listUC) OperationID() string { return "medal.list" }

func (uc *listUC) Execute(ctx context.Context, in *ListRequest) (ListResponse, error) {
	q, err := ListQuery(*in)
	if err != nil {
		return ListResponse{}, errx.Wrap(err)
	}

	list, err := uc.svc.List(ctx, q)
	if err != nil {
		return ListResponse{}, errx.Wrap(err)
	}

	resp := ListResponse{Results: make([]Response, 0, len(list))}
	for i := range list {
		resp.Results = append(resp.Results, toResponse(&list[i]))
	}
	return resp, nil
}

// ListQuery translates a list request into filters. Athlete, event and year
// filters join the relation they match on.
func ListQuery(in ListRequest) (repogen.ListQuery, error) {
	order, err := sorter.Parse(in.Sort, sortable...)
	if err != nil {
		return repogen.ListQuery{}, errx.Wrap(err)
	}

	skip, limit := in.Normalize()
	q := repogen.ListQuery{Order: order, Skip: skip, Limit: limit}

	if in.Medal != "" {
		q.Filters = append(q.Filters, repogen.Filter{Column: "medal", Value: in.Medal, Comparison: repogen.Equal})
	}
	if in.Athlete != "" {
		q.Joins = append(q.Joins, model.MedalAthlete)
		q.Filters = append(q.Filters, repogen.Filter{
			Column:     "name",
			Value:      in.Athlete,
			Comparison: repogen.ILike,
			Entity:     model.MedalAthlete,
		})
	}
	if in.Event != "" {
		q.Joins = append(q.Joins, model.MedalEvent)
		q.Filters = append(q.Filters, repogen.Filter{
			Column:     "name",
			Value:      in.Event,
			Comparison: repogen.ILike,
			Entity:     model.MedalEvent,
		})
	}
	if in.Year != 0 {
		q.Joins = append(q.Joins, model.MedalGame)
		q.Filters = append(q.Filters, repogen.Filter{
			Column:     "year",
			Value:      in.Year,
			Comparison: repogen.Equal,
			Entity:     model.MedalGame,
		})
	}

	return q, nil
}
