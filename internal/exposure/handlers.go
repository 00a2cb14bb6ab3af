package exposure

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookshelf-api/internal/jsonapi"
)

// requestDocument is the JSON:API request body for create and update.
type requestDocument struct {
	Data struct {
		Type          string         `json:"type"`
		ID            string         `json:"id"`
		Attributes    map[string]any `json:"attributes"`
		Relationships map[string]struct {
			Data *jsonapi.Identifier `json:"data"`
		} `json:"relationships"`
	} `json:"data"`
}

func (g *Registry) handleList(r *Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		params, err := ParseListParams(c.Request.URL.Query(), r)
		if err != nil {
			g.renderError(c, err)
			return
		}

		recs, total, err := r.Storage.List(c.Request.Context(), params)
		if err != nil {
			g.renderError(c, err)
			return
		}

		base := fmt.Sprintf("%s/%s", g.prefix, r.Collection)
		links := jsonapi.PageLinks(base, c.Request.URL.Query(), params.Offset, params.Limit, total)
		c.JSON(http.StatusOK, jsonapi.Collection(g.serializeAll(r, recs), total, links))
	}
}

func (g *Registry) handleGet(r *Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := r.Storage.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			g.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, jsonapi.Single(g.Serialize(r, rec)))
	}
}

func (g *Registry) handleCreate(r *Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		attrs, err := g.parseBody(c, r, true)
		if err != nil {
			g.renderError(c, err)
			return
		}

		rec, err := r.Storage.Create(c.Request.Context(), attrs)
		if err != nil {
			g.renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, jsonapi.Single(g.Serialize(r, rec)))
	}
}

func (g *Registry) handleUpdate(r *Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		attrs, err := g.parseBody(c, r, false)
		if err != nil {
			g.renderError(c, err)
			return
		}

		rec, err := r.Storage.Update(c.Request.Context(), c.Param("id"), attrs)
		if err != nil {
			g.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, jsonapi.Single(g.Serialize(r, rec)))
	}
}

func (g *Registry) handleDelete(r *Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := r.Storage.Delete(c.Request.Context(), c.Param("id")); err != nil {
			g.renderError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleRelated serves GET /<Collection>/<id>/<relation>. To-many edges
// page through the target collection filtered on the remote key; to-one
// edges resolve the local foreign key.
func (g *Registry) handleRelated(r *Resource, rel *Relationship) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		target := g.byName[rel.Target]

		owner, err := r.Storage.Get(ctx, c.Param("id"))
		if err != nil {
			g.renderError(c, err)
			return
		}

		if rel.ToMany {
			params, err := ParseListParams(c.Request.URL.Query(), target)
			if err != nil {
				g.renderError(c, err)
				return
			}
			params.Filters[rel.RemoteField] = owner.ResourceID()

			recs, total, err := target.Storage.List(ctx, params)
			if err != nil {
				g.renderError(c, err)
				return
			}

			base := fmt.Sprintf("%s/%s/%s/%s", g.prefix, r.Collection, owner.ResourceID(), rel.Name)
			links := jsonapi.PageLinks(base, c.Request.URL.Query(), params.Offset, params.Limit, total)
			c.JSON(http.StatusOK, jsonapi.Collection(g.serializeAll(target, recs), total, links))
			return
		}

		fk, ok := owner.Attributes()[rel.LocalField]
		if !ok || fk == nil || fmt.Sprint(fk) == "" {
			c.JSON(http.StatusOK, jsonapi.NullDocument())
			return
		}

		rec, err := target.Storage.Get(ctx, fmt.Sprint(fk))
		if err != nil {
			g.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, jsonapi.Single(g.Serialize(target, rec)))
	}
}

// handleOperation invokes a custom operation with the owning instance
// (or the type, for collection operations) and the caller-supplied
// arguments, then wraps the result in the response envelope.
func (g *Registry) handleOperation(r *Resource, op *Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		args := map[string]any{}
		for key, values := range c.Request.URL.Query() {
			if _, isFilter := filterField(key); isFilter || key == "sort" ||
				key == "page[offset]" || key == "page[limit]" {
				continue
			}
			args[key] = values[0]
		}
		if c.Request.Method != http.MethodGet && c.Request.ContentLength != 0 {
			var body map[string]any
			if err := c.ShouldBindJSON(&body); err != nil {
				g.renderError(c, NewValidation("request body must be a JSON object"))
				return
			}
			// jsonapi_rpc-style bodies nest arguments under meta.args.
			if meta, ok := body["meta"].(map[string]any); ok {
				if nested, ok := meta["args"].(map[string]any); ok {
					body = nested
				}
			}
			for k, v := range body {
				args[k] = v
			}
		}

		oc := OpContext{
			Args:     args,
			Resource: r,
			BasePath: fmt.Sprintf("%s/%s", g.prefix, r.Collection),
			Serialize: func(rec Record) any {
				return g.Serialize(r, rec)
			},
		}

		if !op.Collection {
			target, err := r.Storage.Get(ctx, c.Param("id"))
			if err != nil {
				g.renderError(c, err)
				return
			}
			oc.Target = target
		} else {
			params, err := ParseListParams(c.Request.URL.Query(), r)
			if err != nil {
				g.renderError(c, err)
				return
			}
			oc.Params = params
		}

		result, err := op.Handler(ctx, oc)
		if err != nil {
			g.renderError(c, err)
			return
		}

		switch v := result.(type) {
		case *jsonapi.Document:
			c.JSON(http.StatusOK, v)
		case map[string]any:
			c.JSON(http.StatusOK, &jsonapi.Document{Meta: v})
		default:
			c.JSON(http.StatusOK, &jsonapi.Document{Meta: map[string]any{"result": v}})
		}
	}
}

// parseBody flattens a JSON:API request document into an attribute map:
// declared attributes pass through, to-one relationship linkage becomes
// the corresponding foreign key, unknown keys are rejected.
func (g *Registry) parseBody(c *gin.Context, r *Resource, create bool) (map[string]any, error) {
	var doc requestDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		return nil, NewValidation("request body is not a valid jsonapi document")
	}
	if doc.Data.Type != "" && doc.Data.Type != r.Name {
		return nil, NewValidation(fmt.Sprintf("document type %q does not match resource %s", doc.Data.Type, r.Name))
	}

	attrs := map[string]any{}
	for name, value := range doc.Data.Attributes {
		if _, known := r.Field(name); !known {
			return nil, NewValidation(fmt.Sprintf("%s has no attribute %q", r.Name, name))
		}
		attrs[name] = value
	}

	for name, linkage := range doc.Data.Relationships {
		rel, known := r.Relationship(name)
		if !known || rel.ToMany || rel.LocalField == "" {
			return nil, NewValidation(fmt.Sprintf("%s has no settable relationship %q", r.Name, name))
		}
		if linkage.Data != nil {
			attrs[rel.LocalField] = linkage.Data.ID
		}
	}

	if create {
		if doc.Data.ID != "" {
			attrs["id"] = doc.Data.ID
		}
		for _, f := range r.Fields {
			if f.Required && attrs[f.Name] == nil {
				return nil, NewValidation(fmt.Sprintf("attribute %q is required", f.Name))
			}
		}
	}

	return attrs, nil
}

// renderError resolves an error to its HTTP shape. Internal failures
// keep their detail in the log, not the response.
func (g *Registry) renderError(c *gin.Context, err error) {
	status, code, message := MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Err(err).
			Msg("request failed")
	}
	c.JSON(status, jsonapi.ErrorDocument(status, code, message))
}
