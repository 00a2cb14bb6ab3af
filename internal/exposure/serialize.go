package exposure

import (
	"fmt"

	"bookshelf-api/internal/jsonapi"
)

// Serialize converts a record into a jsonapi resource object. Only
// fields flagged Exposed make it into the attributes; the id travels in
// the resource object itself. Relationship entries carry a related
// link, and to-one edges include the linkage identifier when the
// foreign key is set.
func (g *Registry) Serialize(r *Resource, rec Record) *jsonapi.Resource {
	raw := rec.Attributes()
	attrs := make(map[string]any, len(raw))
	for _, f := range r.Fields {
		if !f.Exposed || f.Name == "id" {
			continue
		}
		if v, ok := raw[f.Name]; ok {
			attrs[f.Name] = v
		}
	}

	if r.AttributeHook != nil {
		attrs = r.AttributeHook(rec, attrs)
	}

	id := rec.ResourceID()
	self := fmt.Sprintf("%s/%s/%s", g.prefix, r.Collection, id)

	var rels map[string]jsonapi.Relationship
	if len(r.Relations) > 0 {
		rels = make(map[string]jsonapi.Relationship, len(r.Relations))
		for _, rel := range r.Relations {
			entry := jsonapi.Relationship{
				Links: map[string]string{"related": self + "/" + rel.Name},
			}
			if !rel.ToMany {
				if fk, ok := raw[rel.LocalField]; ok && fk != nil {
					if s := fmt.Sprint(fk); s != "" {
						if target := g.byName[rel.Target]; target != nil {
							entry.Data = jsonapi.Identifier{Type: target.Name, ID: s}
						}
					}
				}
			}
			rels[rel.Name] = entry
		}
	}

	return &jsonapi.Resource{
		Type:          r.Name,
		ID:            id,
		Attributes:    attrs,
		Relationships: rels,
		Links:         map[string]string{"self": self},
	}
}

func (g *Registry) serializeAll(r *Resource, recs []Record) []*jsonapi.Resource {
	out := make([]*jsonapi.Resource, len(recs))
	for i, rec := range recs {
		out[i] = g.Serialize(r, rec)
	}
	return out
}
