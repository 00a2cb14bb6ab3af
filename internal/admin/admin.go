// Package admin is the Flask-Admin counterpart: a small server-rendered
// CRUD frontend derived from the same resource descriptors the REST
// surface is built from. It talks to storage directly and does not go
// through the exposure handlers.
package admin

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookshelf-api/internal/exposure"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const pageSize = 50

// Frontend renders the admin pages for every registered resource.
type Frontend struct {
	registry  *exposure.Registry
	templates *template.Template
}

func NewFrontend(registry *exposure.Registry) (*Frontend, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse admin templates: %w", err)
	}
	return &Frontend{registry: registry, templates: templates}, nil
}

// Mount registers the admin routes: an index, one list view per
// resource, and the create/delete form targets.
func (f *Frontend) Mount(rg *gin.RouterGroup) {
	rg.GET("", f.handleIndex)
	rg.GET("/:resource", f.handleList)
	rg.POST("/:resource", f.handleCreate)
	rg.POST("/:resource/:id/delete", f.handleDelete)
}

type indexData struct {
	Resources []*exposure.Resource
}

func (f *Frontend) handleIndex(c *gin.Context) {
	f.render(c, http.StatusOK, "index.tmpl", indexData{Resources: f.registry.Resources()})
}

type listRow struct {
	ID     string
	Values []string
}

type listData struct {
	Resource   *exposure.Resource
	Columns    []string
	FormFields []exposure.Field
	Rows       []listRow
	Total      int
	Offset     int
	NextOffset int
	PrevOffset int
	HasNext    bool
	HasPrev    bool
	Error      string
}

func (f *Frontend) handleList(c *gin.Context) {
	r := f.lookup(c)
	if r == nil {
		return
	}

	offset, _ := strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}

	params := exposure.ListParams{
		Offset:  offset,
		Limit:   pageSize,
		Sort:    []exposure.SortField{{Name: "id"}},
		Filters: map[string]string{},
	}

	recs, total, err := r.Storage.List(c.Request.Context(), params)
	if err != nil {
		log.Error().Err(err).Str("resource", r.Name).Msg("admin list failed")
		c.String(http.StatusInternalServerError, "list failed")
		return
	}

	columns := []string{"id"}
	for _, fld := range r.ExposedFields() {
		if fld.Name != "id" {
			columns = append(columns, fld.Name)
		}
	}

	rows := make([]listRow, len(recs))
	for i, rec := range recs {
		attrs := rec.Attributes()
		values := make([]string, 0, len(columns)-1)
		for _, col := range columns[1:] {
			v := attrs[col]
			if v == nil {
				values = append(values, "")
				continue
			}
			values = append(values, fmt.Sprint(v))
		}
		rows[i] = listRow{ID: rec.ResourceID(), Values: values}
	}

	f.render(c, http.StatusOK, "list.tmpl", listData{
		Resource:   r,
		Columns:    columns,
		FormFields: f.formFields(r),
		Rows:       rows,
		Total:      total,
		Offset:     offset,
		NextOffset: offset + pageSize,
		PrevOffset: max(offset-pageSize, 0),
		HasNext:    offset+pageSize < total,
		HasPrev:    offset > 0,
		Error:      c.Query("error"),
	})
}

func (f *Frontend) handleCreate(c *gin.Context) {
	r := f.lookup(c)
	if r == nil {
		return
	}

	attrs := map[string]any{}
	for _, fld := range f.formFields(r) {
		if v := c.PostForm(fld.Name); v != "" {
			attrs[fld.Name] = v
		}
	}

	target := "/admin/" + r.Collection
	if _, err := r.Storage.Create(c.Request.Context(), attrs); err != nil {
		c.Redirect(http.StatusFound, errorRedirect(target, err))
		return
	}
	c.Redirect(http.StatusFound, target)
}

func (f *Frontend) handleDelete(c *gin.Context) {
	r := f.lookup(c)
	if r == nil {
		return
	}

	target := "/admin/" + r.Collection
	if err := r.Storage.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Redirect(http.StatusFound, errorRedirect(target, err))
		return
	}
	c.Redirect(http.StatusFound, target)
}

// errorRedirect carries the mapped error message back to the list page
// as a query parameter.
func errorRedirect(target string, err error) string {
	_, _, message := exposure.MapErrorToHTTP(err)
	return target + "?error=" + url.QueryEscape(message)
}

// formFields picks the columns a create form offers: exposed, writable,
// not server-generated.
func (f *Frontend) formFields(r *exposure.Resource) []exposure.Field {
	fields := []exposure.Field{}
	for _, fld := range r.ExposedFields() {
		switch fld.Name {
		case "id", "created", "created_at":
			continue
		}
		fields = append(fields, fld)
	}
	return fields
}

func (f *Frontend) lookup(c *gin.Context) *exposure.Resource {
	segment := c.Param("resource")
	for _, r := range f.registry.Resources() {
		if r.Collection == segment {
			return r
		}
	}
	c.String(http.StatusNotFound, "no such resource: %s", segment)
	return nil
}

func (f *Frontend) render(c *gin.Context, status int, name string, data any) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := f.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("admin render failed")
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
