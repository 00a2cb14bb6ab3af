package person

import (
	"time"

	"github.com/google/uuid"
)

// Person is a reader or author. The password column is the hidden
// credential: it is written at seed time and must never serialize.
type Person struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Comment   string
	DOB       *time.Time
	Password  string
	CreatedAt time.Time
}

func (p *Person) ResourceID() string {
	return p.ID.String()
}

// Attributes returns the serializable columns. Password is deliberately
// absent; the exposure layer filters against the descriptor as well.
func (p *Person) Attributes() map[string]any {
	var dob any
	if p.DOB != nil {
		dob = p.DOB.Format("2006-01-02")
	}
	return map[string]any{
		"name":       p.Name,
		"email":      p.Email,
		"comment":    p.Comment,
		"dob":        dob,
		"created_at": p.CreatedAt,
	}
}
