package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf-api/internal/domains/book"
	"bookshelf-api/internal/exposure"
	"bookshelf-api/internal/infrastructure/database"
	"bookshelf-api/internal/shared/utils"
	"bookshelf-api/pkg/cache"
)

const (
	selectCols    = "id, title, reader_id, author_id, publisher_id"
	countCacheKey = "count:books"
	countCacheTTL = 30 * time.Second
)

var columns = map[string]string{
	"id":           "id",
	"title":        "title",
	"reader_id":    "reader_id",
	"author_id":    "author_id",
	"publisher_id": "publisher_id",
}

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) exposure.Storage {
	return &postgresRepository{pool: pool, cache: c}
}

func scanBook(row pgx.Row) (*book.Book, error) {
	var b book.Book
	if err := row.Scan(&b.ID, &b.Title, &b.ReaderID, &b.AuthorID, &b.PublisherID); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) List(ctx context.Context, p exposure.ListParams) ([]exposure.Record, int, error) {
	where, args := utils.WhereClause(columns, p.Filters)
	order := utils.OrderClause(columns, p.Sort)

	query := fmt.Sprintf("SELECT %s FROM books%s%s LIMIT $%d OFFSET $%d",
		selectCols, where, order, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, database.MapError(err, "Book")
	}
	defer rows.Close()

	records := []exposure.Record{}
	for rows.Next() {
		rec, err := scanBook(rows)
		if err != nil {
			return nil, 0, exposure.NewInternal(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, exposure.NewInternal(err)
	}

	total, err := r.count(ctx, where, args)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *postgresRepository) count(ctx context.Context, where string, args []any) (int, error) {
	cacheable := where == "" && r.cache != nil
	if cacheable {
		var total int
		if found, err := r.cache.Get(ctx, countCacheKey, &total); err == nil && found {
			return total, nil
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM books"+where, args...).Scan(&total); err != nil {
		return 0, database.MapError(err, "Book")
	}

	if cacheable {
		_ = r.cache.Set(ctx, countCacheKey, total, countCacheTTL)
	}
	return total, nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (exposure.Record, error) {
	bid, err := uuid.Parse(id)
	if err != nil {
		return nil, exposure.NewNotFound("Book")
	}

	rec, err := scanBook(r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM books WHERE id = $1", selectCols), bid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exposure.NewNotFound("Book")
		}
		return nil, exposure.NewInternal(err)
	}
	return rec, nil
}

func (r *postgresRepository) Create(ctx context.Context, attrs map[string]any) (exposure.Record, error) {
	id := uuid.New()
	if raw, ok := attrs["id"].(string); ok && raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, exposure.NewValidation("id must be a uuid")
		}
		id = parsed
	}

	readerID, err := fkUUID(attrs, "reader_id")
	if err != nil {
		return nil, err
	}
	authorID, err := fkUUID(attrs, "author_id")
	if err != nil {
		return nil, err
	}
	publisherID, err := fkInt(attrs, "publisher_id")
	if err != nil {
		return nil, err
	}

	title, _ := attrs["title"].(string)
	rec, err := scanBook(r.pool.QueryRow(ctx, fmt.Sprintf(`
    INSERT INTO books (id, title, reader_id, author_id, publisher_id)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING %s`, selectCols),
		id, title, readerID, authorID, publisherID))
	if err != nil {
		return nil, database.MapError(err, "Book")
	}

	r.invalidateCount(ctx)
	return rec, nil
}

func (r *postgresRepository) Update(ctx context.Context, id string, attrs map[string]any) (exposure.Record, error) {
	bid, err := uuid.Parse(id)
	if err != nil {
		return nil, exposure.NewNotFound("Book")
	}

	sets := []string{}
	args := []any{}
	addSet := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if title, ok := attrs["title"].(string); ok {
		addSet("title", title)
	}
	for _, col := range []string{"reader_id", "author_id"} {
		if _, ok := attrs[col]; ok {
			fk, err := fkUUID(attrs, col)
			if err != nil {
				return nil, err
			}
			addSet(col, fk)
		}
	}
	if _, ok := attrs["publisher_id"]; ok {
		fk, err := fkInt(attrs, "publisher_id")
		if err != nil {
			return nil, err
		}
		addSet("publisher_id", fk)
	}
	if len(sets) == 0 {
		return nil, exposure.NewValidation("no updatable attributes in request")
	}

	args = append(args, bid)
	rec, err := scanBook(r.pool.QueryRow(ctx, fmt.Sprintf(
		"UPDATE books SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), selectCols), args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exposure.NewNotFound("Book")
		}
		return nil, database.MapError(err, "Book")
	}
	return rec, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	bid, err := uuid.Parse(id)
	if err != nil {
		return exposure.NewNotFound("Book")
	}

	tag, err := r.pool.Exec(ctx, "DELETE FROM books WHERE id = $1", bid)
	if err != nil {
		return database.MapError(err, "Book")
	}
	if tag.RowsAffected() == 0 {
		return exposure.NewNotFound("Book")
	}

	r.invalidateCount(ctx)
	return nil
}

func (r *postgresRepository) invalidateCount(ctx context.Context) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, countCacheKey)
	}
}

// fkUUID reads an optional uuid foreign key attribute. A present but
// unparsable value is a referential client error: the reference cannot
// name an existing row.
func fkUUID(attrs map[string]any, key string) (*uuid.UUID, error) {
	raw, ok := attrs[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, _ := raw.(string)
	if s == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return nil, exposure.NewReferential(fmt.Sprintf("%s %q is not a valid reference", key, s))
	}
	return &parsed, nil
}

func fkInt(attrs map[string]any, key string) (*int64, error) {
	raw, ok := attrs[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64: // JSON numbers decode as float64
		n := int64(v)
		return &n, nil
	case string:
		if v == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, exposure.NewReferential(fmt.Sprintf("%s %q is not a valid reference", key, v))
		}
		return &n, nil
	default:
		return nil, exposure.NewReferential(fmt.Sprintf("%s has an unsupported type", key))
	}
}
