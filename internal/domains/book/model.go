package book

import (
	"github.com/google/uuid"
)

// Book links a title to its reader, author and publisher.
type Book struct {
	ID          uuid.UUID
	Title       string
	ReaderID    *uuid.UUID
	AuthorID    *uuid.UUID
	PublisherID *int64
}

func (b *Book) ResourceID() string {
	return b.ID.String()
}

func (b *Book) Attributes() map[string]any {
	var reader, author, publisher any
	if b.ReaderID != nil {
		reader = b.ReaderID.String()
	}
	if b.AuthorID != nil {
		author = b.AuthorID.String()
	}
	if b.PublisherID != nil {
		publisher = *b.PublisherID
	}
	return map[string]any{
		"title":        b.Title,
		"reader_id":    reader,
		"author_id":    author,
		"publisher_id": publisher,
	}
}
