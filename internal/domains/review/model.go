package review

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"bookshelf-api/internal/exposure"
)

// Review is keyed by the (reader, book) pair. On the wire the two ids
// join with an underscore into a single resource id.
type Review struct {
	ReaderID uuid.UUID
	BookID   uuid.UUID
	Review   string
	Created  time.Time
}

func (r *Review) ResourceID() string {
	return r.ReaderID.String() + "_" + r.BookID.String()
}

func (r *Review) Attributes() map[string]any {
	return map[string]any{
		"reader_id": r.ReaderID.String(),
		"book_id":   r.BookID.String(),
		"review":    r.Review,
		"created":   r.Created,
	}
}

// SplitID parses a composite wire id back into its key pair.
func SplitID(id string) (uuid.UUID, uuid.UUID, error) {
	parts := strings.SplitN(id, "_", 2)
	if len(parts) != 2 {
		return uuid.Nil, uuid.Nil, exposure.NewNotFound("Review")
	}
	readerID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, exposure.NewNotFound("Review")
	}
	bookID, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, exposure.NewNotFound("Review")
	}
	return readerID, bookID, nil
}
