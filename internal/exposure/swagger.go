package exposure

import (
	"fmt"
	"strings"
)

// SwaggerInfo is the deployment-specific part of the generated
// document, merged in from configuration.
type SwaggerInfo struct {
	Title       string
	Description string
	Version     string
	Host        string
	BasePath    string
}

// SwaggerDoc derives a swagger 2.0 document from the route table.
// Hidden fields never reach the definitions or the parameter lists;
// documented columns carry their descriptions through.
func (g *Registry) SwaggerDoc(info SwaggerInfo) map[string]any {
	paths := map[string]map[string]any{}
	for _, route := range g.routes {
		path := swaggerPath(route.Path)
		if paths[path] == nil {
			paths[path] = map[string]any{}
		}
		paths[path][strings.ToLower(route.Method)] = g.swaggerOperation(route)
	}

	definitions := map[string]any{}
	for _, r := range g.resources {
		definitions[r.Name] = g.swaggerDefinition(r)
	}

	return map[string]any{
		"swagger": "2.0",
		"info": map[string]any{
			"title":       info.Title,
			"description": info.Description,
			"version":     info.Version,
		},
		"host":     info.Host,
		"basePath": info.BasePath,
		"schemes":  []string{"http", "https"},
		"consumes": []string{"application/json"},
		"produces": []string{"application/json"},
		"securityDefinitions": map[string]any{
			"ApiKeyAuth": map[string]any{
				"type": "apiKey",
				"in":   "header",
				"name": "My-ApiKey",
			},
		},
		"paths":       paths,
		"definitions": definitions,
	}
}

func (g *Registry) swaggerDefinition(r *Resource) map[string]any {
	properties := map[string]any{}
	for _, f := range r.ExposedFields() {
		prop := map[string]any{"type": f.Type}
		if f.Format != "" {
			prop["format"] = f.Format
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		properties[f.Name] = prop
	}
	return map[string]any{
		"type":        "object",
		"description": r.Description,
		"properties":  properties,
	}
}

func (g *Registry) swaggerOperation(route Route) map[string]any {
	r := route.Resource
	op := map[string]any{
		"tags":      []string{r.Name},
		"responses": map[string]any{},
	}
	responses := op["responses"].(map[string]any)
	params := []map[string]any{}

	ref := map[string]any{"$ref": "#/definitions/" + r.Name}

	switch route.Kind {
	case RouteList:
		op["summary"] = "List " + r.Collection
		params = append(params, pageParams()...)
		params = append(params, g.filterParams(r)...)
		responses["200"] = okResponse(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"data":  map[string]any{"type": "array", "items": ref},
				"meta":  map[string]any{"type": "object"},
				"links": map[string]any{"type": "object"},
			},
		})

	case RouteGet:
		op["summary"] = "Retrieve a " + r.Name
		if r.ItemGetDescription != "" {
			op["description"] = r.ItemGetDescription
		}
		params = append(params, idParam())
		responses["200"] = okResponse(documentSchema(ref))
		responses["404"] = errorResponse()

	case RouteCreate:
		op["summary"] = "Create a " + r.Name
		params = append(params, bodyParam(documentSchema(ref)))
		responses["201"] = okResponse(documentSchema(ref))
		responses["400"] = errorResponse()

	case RouteUpdate:
		op["summary"] = "Update a " + r.Name
		params = append(params, idParam(), bodyParam(documentSchema(ref)))
		responses["200"] = okResponse(documentSchema(ref))
		responses["404"] = errorResponse()

	case RouteDelete:
		op["summary"] = "Delete a " + r.Name
		params = append(params, idParam())
		responses["204"] = map[string]any{"description": "Deleted"}
		responses["404"] = errorResponse()

	case RouteRelated:
		rel := route.Relationship
		op["summary"] = fmt.Sprintf("Retrieve %s of a %s", rel.Name, r.Name)
		params = append(params, idParam())
		targetRef := map[string]any{"$ref": "#/definitions/" + rel.Target}
		if rel.ToMany {
			params = append(params, pageParams()...)
			responses["200"] = okResponse(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"data": map[string]any{"type": "array", "items": targetRef},
				},
			})
		} else {
			responses["200"] = okResponse(documentSchema(targetRef))
		}
		responses["404"] = errorResponse()

	case RouteOperation:
		custom := route.Operation
		op["summary"] = custom.Name
		if custom.Description != "" {
			op["description"] = custom.Description
		}
		if !custom.Collection {
			params = append(params, idParam())
		}
		for name, desc := range custom.Args {
			if route.Method == "GET" {
				params = append(params, map[string]any{
					"name": name, "in": "query", "type": "string", "description": desc,
				})
			}
		}
		if route.Method == "POST" {
			properties := map[string]any{}
			for name, desc := range custom.Args {
				properties[name] = map[string]any{"type": "string", "description": desc}
			}
			params = append(params, bodyParam(map[string]any{
				"type": "object", "properties": properties,
			}))
		}
		responses["200"] = okResponse(map[string]any{"type": "object"})
	}

	if len(params) > 0 {
		op["parameters"] = params
	}
	return op
}

func (g *Registry) filterParams(r *Resource) []map[string]any {
	params := []map[string]any{}
	for _, f := range r.ExposedFields() {
		if !f.Filterable {
			continue
		}
		desc := f.Description
		if desc == "" {
			desc = "Filter by " + f.Name
		}
		params = append(params, map[string]any{
			"name":        fmt.Sprintf("filter[%s]", f.Name),
			"in":          "query",
			"type":        "string",
			"required":    false,
			"description": desc,
		})
	}
	if r.FilterHook != nil {
		params = append(params, map[string]any{
			"name": "filter", "in": "query", "type": "string", "required": false,
			"description": "Custom " + r.Name + " filter",
		})
	}
	if len(r.Fields) > 0 {
		params = append(params, map[string]any{
			"name": "sort", "in": "query", "type": "string", "required": false,
			"description": "Comma-separated sort fields, '-' prefix for descending",
		})
	}
	return params
}

func pageParams() []map[string]any {
	return []map[string]any{
		{"name": "page[offset]", "in": "query", "type": "integer", "default": 0,
			"description": "Pagination offset"},
		{"name": "page[limit]", "in": "query", "type": "integer", "default": DefaultPageLimit,
			"description": fmt.Sprintf("Page size, at most %d", MaxPageLimit)},
	}
}

func idParam() map[string]any {
	return map[string]any{
		"name": "id", "in": "path", "type": "string", "required": true,
	}
}

func bodyParam(schema map[string]any) map[string]any {
	return map[string]any{
		"name": "body", "in": "body", "required": true, "schema": schema,
	}
}

func documentSchema(ref map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{"data": ref},
	}
}

func okResponse(schema map[string]any) map[string]any {
	return map[string]any{"description": "Request fulfilled, document follows", "schema": schema}
}

func errorResponse() map[string]any {
	return map[string]any{
		"description": "Error document",
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"errors": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
			},
		},
	}
}

// swaggerPath rewrites a gin pattern into swagger's template form.
func swaggerPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}
