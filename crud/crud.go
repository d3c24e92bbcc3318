// Package crud runs generic repository operations inside request scoped
// transactions and turns missing rows into client facing errors.
package crud

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/repogen"
	"github.com/uptrace/bun"
)

const (
	CodeObjectNotFound  = "OBJECT_NOT_FOUND"
	CodeNothingToUpdate = "NOTHING_TO_UPDATE"
	CodeNothingToDelete = "NOTHING_TO_DELETE"
)

// StatusOverrides returns the HTTP statuses of codes that do not follow their
// error type. Updating or deleting a missing entity answers 204, not 404.
func StatusOverrides() map[string]int {
	return map[string]int{
		CodeNothingToUpdate: fiber.StatusNoContent,
		CodeNothingToDelete: fiber.StatusNoContent,
	}
}

// IDRequest addresses a single entity by the id route parameter.
type IDRequest struct {
	ID int64 `params:"id" json:"-" validate:"gt=0"`
}

// TxRunner runs fn inside a transaction. *bun.DB implements it.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

// Service exposes the operations of one repository, each in its own transaction.
type Service[E any, I repogen.Input] struct {
	db   TxRunner
	repo repogen.Repo[E, I]
	name string
}

// NewService creates a service for the entity called name, e.g. "Athlete".
func NewService[E any, I repogen.Input](db TxRunner, repo repogen.Repo[E, I], name string) *Service[E, I] {
	return &Service[E, I]{db: db, repo: repo, name: name}
}

func (s *Service[E, I]) Create(ctx context.Context, in I) (*E, error) {
	var created *E
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		created, err = s.repo.Create(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return created, nil
}

func (s *Service[E, I]) Get(ctx context.Context, id int64) (*E, error) {
	var found *E
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		found, err = s.repo.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if found == nil {
		return nil, errx.New(
			fmt.Sprintf("%s with ID %d not found", s.name, id),
			errx.WithType(errx.T_NotFound),
			errx.WithCode(CodeObjectNotFound),
		)
	}
	return found, nil
}

// Update applies the fields set in in to the entity with the given id.
// Absent fields are left unchanged.
func (s *Service[E, I]) Update(ctx context.Context, id int64, in repogen.Input) (*E, error) {
	var updated *E
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.repo.Get(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return errx.New(
				fmt.Sprintf("There is no %s with ID %d to update", s.name, id),
				errx.WithType(errx.T_NotFound),
				errx.WithCode(CodeNothingToUpdate),
			)
		}

		updated, err = s.repo.Update(ctx, tx, existing, in)
		return err
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return updated, nil
}

// Delete removes the entity with the given id and returns its last state.
func (s *Service[E, I]) Delete(ctx context.Context, id int64) (*E, error) {
	var deleted *E
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		deleted, err = s.repo.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if deleted == nil {
		return nil, errx.New(
			fmt.Sprintf("There is no %s with ID %d to delete", s.name, id),
			errx.WithType(errx.T_NotFound),
			errx.WithCode(CodeNothingToDelete),
		)
	}
	return deleted, nil
}

func (s *Service[E, I]) List(ctx context.Context, q repogen.ListQuery) ([]E, error) {
	var list []E
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		list, err = s.repo.List(ctx, tx, q)
		return err
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return list, nil
}
