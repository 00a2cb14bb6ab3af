package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf-api/internal/domains/review"
	"bookshelf-api/internal/exposure"
	"bookshelf-api/internal/infrastructure/database"
	"bookshelf-api/internal/shared/utils"
	"bookshelf-api/pkg/cache"
)

const (
	selectCols    = "reader_id, book_id, review, created"
	countCacheKey = "count:reviews"
	countCacheTTL = 30 * time.Second
)

var columns = map[string]string{
	"reader_id": "reader_id",
	"book_id":   "book_id",
	"review":    "review",
	"created":   "created",
}

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) exposure.Storage {
	return &postgresRepository{pool: pool, cache: c}
}

func scanReview(row pgx.Row) (*review.Review, error) {
	var rv review.Review
	if err := row.Scan(&rv.ReaderID, &rv.BookID, &rv.Review, &rv.Created); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *postgresRepository) List(ctx context.Context, p exposure.ListParams) ([]exposure.Record, int, error) {
	where, args := utils.WhereClause(columns, p.Filters)
	order := orderClause(p.Sort)

	query := fmt.Sprintf("SELECT %s FROM reviews%s%s LIMIT $%d OFFSET $%d",
		selectCols, where, order, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, database.MapError(err, "Review")
	}
	defer rows.Close()

	records := []exposure.Record{}
	for rows.Next() {
		rec, err := scanReview(rows)
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

// orderClause expands the synthetic id sort into the composite key so
// pagination stays stable.
func orderClause(sortFields []exposure.SortField) string {
	parts := []string{}
	for _, sf := range sortFields {
		if sf.Name == "id" {
			parts = append(parts, "reader_id", "book_id")
			continue
		}
		col, ok := columns[sf.Name]
		if !ok {
			continue
		}
		if sf.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reviews"+where, args...).Scan(&total); err != nil {
		return 0, database.MapError(err, "Review")
	}

	if cacheable {
		_ = r.cache.Set(ctx, countCacheKey, total, countCacheTTL)
	}
	return total, nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (exposure.Record, error) {
	readerID, bookID, err := review.SplitID(id)
	if err != nil {
		return nil, err
	}

	rec, err := scanReview(r.pool.QueryRow(ctx, fmt.Sprintf(
		"SELECT %s FROM reviews WHERE reader_id = $1 AND book_id = $2", selectCols),
		readerID, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exposure.NewNotFound("Review")
		}
		return nil, exposure.NewInternal(err)
	}
	return rec, nil
}

func (r *postgresRepository) Create(ctx context.Context, attrs map[string]any) (exposure.Record, error) {
	readerID, err := keyAttr(attrs, "reader_id")
	if err != nil {
		return nil, err
	}
	bookID, err := keyAttr(attrs, "book_id")
	if err != nil {
		return nil, err
	}

	text, _ := attrs["review"].(string)
	rec, err := scanReview(r.pool.QueryRow(ctx, fmt.Sprintf(`
    INSERT INTO reviews (reader_id, book_id, review)
    VALUES ($1, $2, $3)
    RETURNING %s`, selectCols),
		readerID, bookID, text))
	if err != nil {
		return nil, database.MapError(err, "Review")
	}

	r.invalidateCount(ctx)
	return rec, nil
}

func (r *postgresRepository) Update(ctx context.Context, id string, attrs map[string]any) (exposure.Record, error) {
	readerID, bookID, err := review.SplitID(id)
	if err != nil {
		return nil, err
	}

	text, ok := attrs["review"].(string)
	if !ok {
		return nil, exposure.NewValidation("no updatable attributes in request")
	}

	rec, err := scanReview(r.pool.QueryRow(ctx, fmt.Sprintf(`
    UPDATE reviews SET review = $1
    WHERE reader_id = $2 AND book_id = $3
    RETURNING %s`, selectCols),
		text, readerID, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exposure.NewNotFound("Review")
		}
		return nil, database.MapError(err, "Review")
	}
	return rec, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	readerID, bookID, err := review.SplitID(id)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		"DELETE FROM reviews WHERE reader_id = $1 AND book_id = $2", readerID, bookID)
	if err != nil {
		return database.MapError(err, "Review")
	}
	if tag.RowsAffected() == 0 {
		return exposure.NewNotFound("Review")
	}

	r.invalidateCount(ctx)
	return nil
}

func (r *postgresRepository) invalidateCount(ctx context.Context) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, countCacheKey)
	}
}

// keyAttr reads a required key column; a missing or malformed value can
// never reference an existing row.
func keyAttr(attrs map[string]any, key string) (uuid.UUID, error) {
	s, _ := attrs[key].(string)
	if s == "" {
		return uuid.Nil, exposure.NewValidation(fmt.Sprintf("attribute %q is required", key))
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, exposure.NewReferential(fmt.Sprintf("%s %q is not a valid reference", key, s))
	}
	return parsed, nil
}
