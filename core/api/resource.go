package api

import (
	"context"
	"strconv"

	"github.com/sendgrid/rest"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

// Resource maps one REST collection. T is the record, F the create/update payload.
// Every method issues exactly one call.
type Resource[T any, F any] struct {
	req  Requester
	path string
}

func NewResource[T any, F any](req Requester, path string) Resource[T, F] {
	return Resource[T, F]{req: req, path: path}
}

func (r Resource[T, F]) Path(elems ...string) string {
	p := r.path
	for _, e := range elems {
		p += "/" + e
	}
	return p
}

func (r Resource[T, F]) idPath(id int64) string {
	return r.Path(strconv.FormatInt(id, 10))
}

func (r Resource[T, F]) Query(ctx context.Context, pr core.PageRequest) (core.Page[T], error) {
	var page core.Page[T]
	err := r.req.Do(ctx, rest.Get, r.path, pr.Query(), nil, &page)
	return page, err
}

func (r Resource[T, F]) Search(ctx context.Context, term string, pr core.PageRequest) (core.Page[T], error) {
	query := pr.Query()
	query["term"] = term
	var page core.Page[T]
	err := r.req.Do(ctx, rest.Get, r.Path("search"), query, nil, &page)
	return page, err
}

func (r Resource[T, F]) GetByID(ctx context.Context, id int64) (T, error) {
	var rec T
	err := r.req.Do(ctx, rest.Get, r.idPath(id), nil, nil, &rec)
	return rec, err
}

func (r Resource[T, F]) Create(ctx context.Context, form F) (T, error) {
	var rec T
	err := r.req.Do(ctx, rest.Post, r.path, nil, form, &rec)
	return rec, err
}

func (r Resource[T, F]) Update(ctx context.Context, id int64, form F) (T, error) {
	var rec T
	err := r.req.Do(ctx, rest.Put, r.idPath(id), nil, form, &rec)
	return rec, err
}

func (r Resource[T, F]) Delete(ctx context.Context, id int64) error {
	return r.req.Do(ctx, rest.Delete, r.idPath(id), nil, nil, nil)
}

// List fetches an unpaged sub-collection such as /levels/course/{id}.
func (r Resource[T, F]) List(ctx context.Context, elems ...string) ([]T, error) {
	var recs []T
	err := r.req.Do(ctx, rest.Get, r.Path(elems...), nil, nil, &recs)
	return recs, err
}

// One fetches a single record from a sub-path such as /academic-periods/current.
func (r Resource[T, F]) One(ctx context.Context, elems ...string) (T, error) {
	var rec T
	err := r.req.Do(ctx, rest.Get, r.Path(elems...), nil, nil, &rec)
	return rec, err
}

func ID(id int64) string {
	return strconv.FormatInt(id, 10)
}
