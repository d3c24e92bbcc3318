// Package athlete exposes athletes over HTTP: create, get, update, delete and
// filtered listing under /athletes.
package athlete

import (
	"context"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/medalists/crud"
	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/repogen"
	"github.com/rise-and-shine/medalists/sorter"
	"github.com/rise-and-shine/medalists/ucdef"
)

// Service is the storage facing side of the athlete use cases.
// *crud.Service[model.Athlete, CreateRequest] implements it.
type Service interface {
	Create(ctx context.Context, in CreateRequest) (*model.Athlete, error)
	Get(ctx context.Context, id int64) (*model.Athlete, error)
	Update(ctx context.Context, id int64, in repogen.Input) (*model.Athlete, error)
	Delete(ctx context.Context, id int64) (*model.Athlete, error)
	List(ctx context.Context, q repogen.ListQuery) ([]model.Athlete, error)
}

var _ Service = (*crud.Service[model.Athlete, CreateRequest])(nil)

// sortable lists the fields athletes can be sorted by.
var sortable = []string{"name", "height", "weight"} //nolint:gochecknoglobals // read-only

type createUC struct{ svc Service }

// NewCreate returns the use case creating an athlete.
func NewCreate(svc Service) ucdef.UserAction[*CreateRequest, Response] {
	return &createUC{svc: svc}
}

func (uc *createUC) OperationID() string { return "athlete.create" }

func (uc *createUC) Execute(ctx context.Context, in *CreateRequest) (Response, error) {
	a, err := uc.svc.Create(ctx, *in)
	if err != nil {
		return Response{}, errx.Wrap(err)
	}
	return toResponse(a), nil
}

type getUC struct{ svc Service }

// NewGet returns the use case fetching an athlete by id.
func NewGet(svc Service) ucdef.UserAction[*crud.IDRequest, Response] {
	return &getUC{svc: svc}
}

func (uc *getUC) OperationID() string { return "athlete.get" }

func (uc *getUC) Execute(ctx context.Context, in *crud.IDRequest) (Response, error) {
	a, err := uc.svc.Get(ctx, in.ID)
	if err != nil {
		return Response{}, errx.Wrap(err)
	}
	return toResponse(a), nil
}

type updateUC struct{ svc Service }

// NewUpdate returns the use case updating the fields of an athlete present in the body.
func NewUpdate(svc Service) ucdef.UserAction[*UpdateRequest, Response] {
	return &updateUC{svc: svc}
}

func (uc *updateUC) OperationID() string { return "athlete.update" }

func (uc *updateUC) Execute(ctx context.Context, in *UpdateRequest) (Response, error) {
	a, err := uc.svc.Update(ctx, in.ID, *in)
	if err != nil {
		return Response{}, errx.Wrap(err)
	}
	return toResponse(a), nil
}

type deleteUC struct{ svc Service }

// NewDelete returns the use case deleting an athlete. The response is the
// athlete as it was before deletion.
func NewDelete(svc Service) ucdef.UserAction[*crud.IDRequest, Response] {
	return &deleteUC{svc: svc}
}

func (uc *deleteUC) OperationID() string { return "athlete.delete" }

func (uc *deleteUC) Execute(ctx context.Context, in *crud.IDRequest) (Response, error) {
	a, err := uc.svc.Delete(ctx, in.ID)
	if err != nil {
		return Response{}, errx.Wrap(err)
	}
	return toResponse(a), nil
}

type listUC struct{ svc Service }

// NewList returns the use case listing athletes.
func NewList(svc Service) ucdef.UserAction[*ListRequest, ListResponse] {
	return &listUC{svc: svc}
}

func (uc *listUC) OperationID() string { return "athlete.list" }

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

// ListQuery translates a list request into filters: name is an ilike match on
// the athlete name, country an exact match on the region of the joined team.
func ListQuery(in ListRequest) (repogen.ListQuery, error) {
	order, err := sorter.Parse(in.Sort, sortable...)
	if err != nil {
		return repogen.ListQuery{}, errx.Wrap(err)
	}

	skip, limit := in.Normalize()
	q := repogen.ListQuery{Order: order, Skip: skip, Limit: limit}

	if in.Name != "" {
		q.Filters = append(q.Filters, repogen.Filter{Column: "name", Value: in.Name, Comparison: repogen.ILike})
	}
	if in.Country != "" {
		q.Joins = append(q.Joins, model.AthleteTeam)
		q.Filters = append(q.Filters, repogen.Filter{
			Column:     "region",
			Value:      in.Country,
			Comparison: repogen.Equal,
			Entity:     model.AthleteTeam,
		})
	}

	return q, nil
}
