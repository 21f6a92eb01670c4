package pages

import (
	"context"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// Form is a dialog payload that cleans and validates itself.
type Form interface {
	Validate(validate *validator.Validate) error
}

// Store is the domain service surface a CRUD page drives. api.Resource implements it.
type Store[T any, F any] interface {
	Query(ctx context.Context, pr core.PageRequest) (core.Page[T], error)
	GetByID(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, form F) (T, error)
	Update(ctx context.Context, id int64, form F) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Searcher is implemented by stores with a search endpoint.
type Searcher[T any] interface {
	Search(ctx context.Context, term string, pr core.PageRequest) (core.Page[T], error)
}

type DialogMode int

const (
	DialogClosed DialogMode = iota
	DialogCreate
	DialogEdit
)

// Dialog is the create/edit form state. Errors maps field names to messages.
type Dialog[F any] struct {
	Mode      DialogMode
	EditingID int64
	Form      F
	Errors    map[string]string
}

func (d Dialog[F]) Open() bool {
	return d.Mode != DialogClosed
}

type Deps struct {
	Validate   *validator.Validate
	Translator ut.Translator
	Toaster    *Toaster
	Logger     core.Logger
}

type Config[T any, F any] struct {
	Entity  string // singular, lower case: "student"
	Store   Store[T, F]
	ID      func(T) int64
	NewForm func() F
	ToForm  func(T) F

	// CanRemove vetoes a removal before any request is sent.
	CanRemove func(T) error
}

// CRUD is the list, pagination and dialog state shared by every entity page.
type CRUD[T any, F any] struct {
	Deps
	cfg Config[T, F]

	Items []T
	Pagination
	Sort       []core.Ordering
	SearchTerm string
	Dialog     Dialog[F]
	Pending    *T // awaiting remove confirmation
}

func NewCRUD[T any, F any](deps Deps, cfg Config[T, F]) *CRUD[T, F] {
	return &CRUD[T, F]{
		Deps:       deps,
		cfg:        cfg,
		Pagination: Pagination{Size: core.DefaultPageSize},
	}
}

func (c *CRUD[T, F]) Entity() string {
	return c.cfg.Entity
}

func (c *CRUD[T, F]) ID(rec T) int64 {
	return c.cfg.ID(rec)
}

// Searchable reports whether the store has a search endpoint.
func (c *CRUD[T, F]) Searchable() bool {
	_, ok := c.cfg.Store.(Searcher[T])
	return ok
}

// Load fetches one page of records. A search term goes through the search endpoint.
func (c *CRUD[T, F]) Load(ctx context.Context, page, size int, sort []core.Ordering, term string) error {
	c.Page, c.Size = page, size
	c.Pagination.clean()
	c.Sort = sort
	c.SearchTerm = core.CleanString(term)
	return c.Reload(ctx)
}

// SetPageSize resets to the first page and reloads.
func (c *CRUD[T, F]) SetPageSize(ctx context.Context, size int) error {
	c.Pagination.SetPageSize(size)
	return c.Reload(ctx)
}

func (c *CRUD[T, F]) Reload(ctx context.Context) error {
	pr := core.NewPageRequest(c.Page, c.Size, c.Sort...)

	var page core.Page[T]
	var err error
	if searcher, ok := c.cfg.Store.(Searcher[T]); ok && c.SearchTerm != "" {
		page, err = searcher.Search(ctx, c.SearchTerm, pr)
	} else {
		page, err = c.cfg.Store.Query(ctx, pr)
	}
	if err != nil {
		c.Items = nil
		return c.fail("loading "+c.cfg.Entity+" list", err)
	}

	c.Items = page.Content
	c.TotalElements = page.TotalElements
	c.TotalPages = page.TotalPages
	if c.Page > 0 && c.Page >= c.TotalPages && c.TotalPages > 0 { // past the end after a delete
		c.Page = c.TotalPages - 1
		return c.Reload(ctx)
	}
	return nil
}

// Fetch loads one record; ok is false when it could not be loaded.
func (c *CRUD[T, F]) Fetch(ctx context.Context, id int64) (rec T, ok bool, err error) {
	rec, err = c.cfg.Store.GetByID(ctx, id)
	if err != nil {
		return rec, false, c.fail("loading "+c.cfg.Entity, err)
	}
	return rec, true, nil
}

func (c *CRUD[T, F]) OpenCreate() {
	c.Dialog = Dialog[F]{Mode: DialogCreate, Form: c.cfg.NewForm()}
}

func (c *CRUD[T, F]) OpenEdit(rec T) {
	c.Dialog = Dialog[F]{Mode: DialogEdit, EditingID: c.cfg.ID(rec), Form: c.cfg.ToForm(rec)}
}

// OpenEditID opens the edit dialog for a record known only by its id.
func (c *CRUD[T, F]) OpenEditID(id int64, form F) {
	c.Dialog = Dialog[F]{Mode: DialogEdit, EditingID: id, Form: form}
}

func (c *CRUD[T, F]) CloseDialog() {
	c.Dialog = Dialog[F]{}
}

// Submit validates the dialog form, then creates or updates and reloads the list.
// ok is false when the form is invalid or the API refused it; the dialog stays open.
func (c *CRUD[T, F]) Submit(ctx context.Context) (ok bool, err error) {
	if !c.Dialog.Open() {
		return false, errors.New("no open dialog")
	}
	c.Dialog.Errors = nil

	if form, isForm := any(&c.Dialog.Form).(Form); isForm {
		if vErr := form.Validate(c.Validate); vErr != nil {
			fields, hasFields := core.FieldErrors(vErr, c.Translator)
			if !hasFields {
				return false, errors.Wrap(vErr, "validating "+c.cfg.Entity)
			}
			c.Dialog.Errors = fields
			return false, nil
		}
	}

	verb := "created"
	if c.Dialog.Mode == DialogCreate {
		_, err = c.cfg.Store.Create(ctx, c.Dialog.Form)
	} else {
		verb = "updated"
		_, err = c.cfg.Store.Update(ctx, c.Dialog.EditingID, c.Dialog.Form)
	}
	if err != nil {
		return false, c.fail("saving "+c.cfg.Entity, err)
	}

	c.Toaster.Success(capitalize(c.cfg.Entity) + " " + verb + ".")
	c.CloseDialog()
	return true, c.Reload(ctx)
}

// RequestRemove starts the confirmation step. It returns false when removal is vetoed.
func (c *CRUD[T, F]) RequestRemove(rec T) bool {
	if c.cfg.CanRemove != nil {
		if err := c.cfg.CanRemove(rec); err != nil {
			c.Toaster.Error(capitalize(err.Error()) + ".")
			c.Pending = nil
			return false
		}
	}
	c.Pending = &rec
	return true
}

func (c *CRUD[T, F]) CancelRemove() {
	c.Pending = nil
}

// ConfirmRemove deletes the pending record and reloads the list.
func (c *CRUD[T, F]) ConfirmRemove(ctx context.Context) (ok bool, err error) {
	if c.Pending == nil {
		return false, nil
	}
	rec := *c.Pending
	c.Pending = nil

	if err = c.cfg.Store.Delete(ctx, c.cfg.ID(rec)); err != nil {
		return false, c.fail("deleting "+c.cfg.Entity, err)
	}
	c.Toaster.Success(capitalize(c.cfg.Entity) + " deleted.")
	return true, c.Reload(ctx)
}

// Remove runs both removal steps at once.
func (c *CRUD[T, F]) Remove(ctx context.Context, rec T) (bool, error) {
	if !c.RequestRemove(rec) {
		return false, nil
	}
	return c.ConfirmRemove(ctx)
}

// fail logs err and shows it as a toast. Unauthorized errors go back to the shell.
func (c *CRUD[T, F]) fail(action string, err error) error {
	return failWith(c.Deps, action, err)
}

func failWith(deps Deps, action string, err error) error {
	deps.Logger.Error(action, err)
	if api.IsUnauthorized(err) {
		return err
	}
	deps.Toaster.Error(FriendlyMessage(err))
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
