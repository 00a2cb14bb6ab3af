package publisher

import "strconv"

// Publisher has a numeric primary key, unlike the uuid-keyed entities.
type Publisher struct {
	ID   int64
	Name string
}

func (p *Publisher) ResourceID() string {
	return strconv.FormatInt(p.ID, 10)
}

func (p *Publisher) Attributes() map[string]any {
	return map[string]any{
		"name": p.Name,
	}
}
