// Package seed creates the demo schema and populates it at startup,
// before the server accepts traffic.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"bookshelf-api/internal/config"
	"bookshelf-api/internal/infrastructure/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS people (
  id         UUID PRIMARY KEY,
  name       TEXT NOT NULL DEFAULT '',
  email      TEXT NOT NULL DEFAULT '',
  comment    TEXT NOT NULL DEFAULT 'comment',
  dob        DATE,
  password   TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS publishers (
  id   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS books (
  id           UUID PRIMARY KEY,
  title        TEXT NOT NULL DEFAULT '',
  reader_id    UUID REFERENCES people (id) ON DELETE SET NULL,
  author_id    UUID REFERENCES people (id) ON DELETE SET NULL,
  publisher_id BIGINT REFERENCES publishers (id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS reviews (
  reader_id UUID NOT NULL REFERENCES people (id) ON DELETE CASCADE,
  book_id   UUID NOT NULL REFERENCES books (id) ON DELETE CASCADE,
  review    TEXT NOT NULL DEFAULT '',
  created   TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (reader_id, book_id)
);
`

// Run creates the schema and, when the store is empty, inserts the
// demo dataset: per iteration a reader, an author, a book, a publisher
// and a review wired together.
func Run(ctx context.Context, db *database.PostgresDB, cfg config.SeedConfig) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var existing int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM people").Scan(&existing); err != nil {
		return fmt.Errorf("failed to inspect people: %w", err)
	}
	if existing > 0 {
		log.Info().Int("people", existing).Msg("store already populated, skipping seed")
		return nil
	}

	err := db.ExecuteInTransaction(ctx, func(tx pgx.Tx) error {
		for i := 0; i < cfg.Count; i++ {
			if err := seedOne(ctx, tx, i); err != nil {
				return fmt.Errorf("seed iteration %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("count", cfg.Count).Msg("seed completed")
	return nil
}

func seedOne(ctx context.Context, tx pgx.Tx, i int) error {
	// The reader gets a credential in the hidden column; it only ever
	// lives in the database.
	secret, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("secret-%d", i)), bcrypt.MinCost)
	if err != nil {
		return err
	}

	readerID := uuid.New()
	authorID := uuid.New()
	bookID := uuid.New()

	if _, err := tx.Exec(ctx,
		"INSERT INTO people (id, name, email, password) VALUES ($1, $2, $3, $4)",
		readerID, fmt.Sprintf("Reader %d", i), fmt.Sprintf("reader_email%d", i), string(secret)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO people (id, name, email) VALUES ($1, $2, $3)",
		authorID, fmt.Sprintf("Author %d", i), fmt.Sprintf("author_email%d", i)); err != nil {
		return err
	}

	var publisherID int64
	if err := tx.QueryRow(ctx,
		"INSERT INTO publishers (name) VALUES ($1) RETURNING id",
		fmt.Sprintf("name%d", i)).Scan(&publisherID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO books (id, title, reader_id, author_id, publisher_id) VALUES ($1, $2, $3, $4, $5)",
		bookID, fmt.Sprintf("book_title%d", i), readerID, authorID, publisherID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO reviews (reader_id, book_id, review) VALUES ($1, $2, $3)",
		readerID, bookID, fmt.Sprintf("review %d", i)); err != nil {
		return err
	}

	return nil
}
