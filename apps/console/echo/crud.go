package echoconsole

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/pages"
)

type column[T any] struct {
	Header string
	Sort   string // API sort field; empty when the column is not sortable
	Value  func(T) string
}

// entityPage describes the list, form and removal pages of one collection.
type entityPage[T any, F any] struct {
	pages.Config[T, F]
	Columns     []column[T]
	DefaultSort []core.Ordering

	// Fields lists the form inputs; options may need remote lookups.
	Fields func(ctx context.Context) ([]field, error)
	// EditForm is the empty form an update binds into; defaults to NewForm.
	EditForm func() F
	// Describe names a record on the removal confirmation page.
	Describe func(T) string

	ReadOnly bool // list and remove only
}

type header struct {
	Label string
	Link  string // empty: not sortable
	Arrow string
}

type listRow struct {
	ID    int64
	Cells []string
}

type listPage struct {
	Base       string
	Entity     string
	Headers    []header
	Rows       []listRow
	Pagination pages.Pagination
	PageSizes  []int
	Sort       string
	Term       string
	Searchable bool
	ReadOnly   bool
	PrevLink   string
	NextLink   string
}

type formPage struct {
	Base    string
	Entity  string
	Action  string
	Editing bool
	Fields  []field
	Values  map[string][]string
	Errors  map[string]string
}

type confirmPage struct {
	Base    string
	Action  string
	Message string
}

func registerEntity[T any, F any](s *Server, rt route, page entityPage[T, F]) {
	if page.EditForm == nil {
		page.EditForm = page.NewForm
	}
	h := &entityHandlers[T, F]{s: s, rt: rt, page: page}

	g := s.app.Group(rt.Path, s.guard(rt))
	g.GET("", h.list)
	if !page.ReadOnly {
		g.GET("/new", h.newForm)
		g.POST("", h.create)
		g.GET("/:id/edit", h.editForm)
		g.POST("/:id", h.update)
	}
	g.GET("/:id/delete", h.confirmRemove)
	g.POST("/:id/delete", h.remove)
}

type entityHandlers[T any, F any] struct {
	s    *Server
	rt   route
	page entityPage[T, F]
}

func (h *entityHandlers[T, F]) crud() *pages.CRUD[T, F] {
	return pages.NewCRUD(h.s.pageDeps(), h.page.Config)
}

func (h *entityHandlers[T, F]) list(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	size, _ := strconv.Atoi(ctx.QueryParam("size"))
	sort := core.ParseOrderings(ctx.QueryParam("sort"))
	if len(sort) == 0 {
		sort = h.page.DefaultSort
	}
	term := ctx.QueryParam("q")

	c := h.crud()
	if err := c.Load(ctx.Request().Context(), page, size, sort, term); err != nil {
		return err
	}

	data := listPage{
		Base:       h.rt.Path,
		Entity:     c.Entity(),
		Pagination: c.Pagination,
		PageSizes:  core.PageSizes,
		Sort:       core.FormatOrderings(c.Sort),
		Term:       c.SearchTerm,
		Searchable: c.Searchable(),
		ReadOnly:   h.page.ReadOnly,
	}
	for _, col := range h.page.Columns {
		data.Headers = append(data.Headers, h.header(col, c))
	}
	for _, rec := range c.Items {
		row := listRow{ID: c.ID(rec)}
		for _, col := range h.page.Columns {
			row.Cells = append(row.Cells, col.Value(rec))
		}
		data.Rows = append(data.Rows, row)
	}
	if c.HasPrev() {
		data.PrevLink = h.listURL(c.Page-1, c.Size, data.Sort, data.Term)
	}
	if c.HasNext() {
		data.NextLink = h.listURL(c.Page+1, c.Size, data.Sort, data.Term)
	}
	return h.s.render(ctx, http.StatusOK, "list", h.rt.Title, data)
}

// header links a sortable column to its ascending order, or descending when already ascending.
func (h *entityHandlers[T, F]) header(col column[T], c *pages.CRUD[T, F]) header {
	hd := header{Label: col.Header}
	if col.Sort == "" {
		return hd
	}
	next := core.Ordering{Field: col.Sort, Ascending: true}
	if len(c.Sort) > 0 && c.Sort[0].Field == col.Sort {
		if c.Sort[0].Ascending {
			hd.Arrow = "▲"
			next.Ascending = false
		} else {
			hd.Arrow = "▼"
		}
	}
	hd.Link = h.listURL(0, c.Size, core.FormatOrderings([]core.Ordering{next}), c.SearchTerm)
	return hd
}

func (h *entityHandlers[T, F]) listURL(page, size int, sort, term string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if sort != "" {
		q.Set("sort", sort)
	}
	if term != "" {
		q.Set("q", term)
	}
	return h.rt.Path + "?" + q.Encode()
}

func (h *entityHandlers[T, F]) newForm(ctx echo.Context) error {
	c := h.crud()
	c.OpenCreate()
	return h.renderForm(ctx, http.StatusOK, c)
}

func (h *entityHandlers[T, F]) create(ctx echo.Context) error {
	c := h.crud()
	c.OpenCreate()
	return h.submit(ctx, c)
}

func (h *entityHandlers[T, F]) editForm(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	c := h.crud()
	rec, ok, err := c.Fetch(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return ctx.Redirect(http.StatusSeeOther, h.rt.Path)
	}
	c.OpenEdit(rec)
	return h.renderForm(ctx, http.StatusOK, c)
}

func (h *entityHandlers[T, F]) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	c := h.crud()
	c.OpenEditID(id, h.page.EditForm())
	return h.submit(ctx, c)
}

func (h *entityHandlers[T, F]) submit(ctx echo.Context, c *pages.CRUD[T, F]) error {
	if err := ctx.Bind(&c.Dialog.Form); err != nil {
		return err
	}
	ok, err := c.Submit(ctx.Request().Context())
	if err != nil {
		return err
	}
	if !ok {
		return h.renderForm(ctx, http.StatusUnprocessableEntity, c)
	}
	return ctx.Redirect(http.StatusSeeOther, h.rt.Path)
}

func (h *entityHandlers[T, F]) renderForm(ctx echo.Context, code int, c *pages.CRUD[T, F]) error {
	fields, err := h.page.Fields(ctx.Request().Context())
	if err != nil {
		return err
	}
	data := formPage{
		Base:    h.rt.Path,
		Entity:  c.Entity(),
		Action:  h.rt.Path,
		Editing: c.Dialog.Mode == pages.DialogEdit,
		Fields:  fields,
		Values:  formValues(c.Dialog.Form),
		Errors:  c.Dialog.Errors,
	}
	title := "New " + c.Entity()
	if data.Editing {
		data.Action = h.rt.Path + "/" + strconv.FormatInt(c.Dialog.EditingID, 10)
		title = "Edit " + c.Entity()
	}
	return h.s.render(ctx, code, "form", title, data)
}

func (h *entityHandlers[T, F]) confirmRemove(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	c := h.crud()
	rec, ok, err := c.Fetch(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok || !c.RequestRemove(rec) {
		return ctx.Redirect(http.StatusSeeOther, h.rt.Path)
	}
	data := confirmPage{
		Base:    h.rt.Path,
		Action:  h.rt.Path + "/" + strconv.FormatInt(id, 10) + "/delete",
		Message: "Delete " + c.Entity() + " " + h.describe(rec) + "? This cannot be undone.",
	}
	return h.s.render(ctx, http.StatusOK, "confirm", "Delete "+c.Entity(), data)
}

func (h *entityHandlers[T, F]) remove(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	c := h.crud()
	rec, ok, err := c.Fetch(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if ok {
		if _, err = c.Remove(ctx.Request().Context(), rec); err != nil {
			return err
		}
	}
	return ctx.Redirect(http.StatusSeeOther, h.rt.Path)
}

func (h *entityHandlers[T, F]) describe(rec T) string {
	if h.page.Describe == nil {
		return "#" + strconv.FormatInt(h.page.ID(rec), 10)
	}
	return h.page.Describe(rec)
}

func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}
