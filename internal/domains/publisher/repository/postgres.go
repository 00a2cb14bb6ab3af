package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf-api/internal/domains/publisher"
	"bookshelf-api/internal/exposure"
	"bookshelf-api/internal/infrastructure/database"
	"bookshelf-api/internal/shared/utils"
	"bookshelf-api/pkg/cache"
)

const (
	countCacheKey = "count:publishers"
	countCacheTTL = 30 * time.Second
)

var columns = map[string]string{
	"id":   "id",
	"name": "name",
}

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) exposure.Storage {
	return &postgresRepository{pool: pool, cache: c}
}

func scanPublisher(row pgx.Row) (*publisher.Publisher, error) {
	var p publisher.Publisher
	if err := row.Scan(&p.ID, &p.Name); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) List(ctx context.Context, p exposure.ListParams) ([]exposure.Record, int, error) {
	where, args := utils.WhereClause(columns, p.Filters)
	order := utils.OrderClause(columns, p.Sort)

	query := fmt.Sprintf("SELECT id, name FROM publishers%s%s LIMIT $%d OFFSET $%d",
		where, order, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, database.MapError(err, "Publisher")
	}
	defer rows.Close()

	records := []exposure.Record{}
	for rows.Next() {
		rec, err := scanPublisher(rows)
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM publishers"+where, args...).Scan(&total); err != nil {
		return 0, database.MapError(err, "Publisher")
	}

	if cacheable {
		_ = r.cache.Set(ctx, countCacheKey, total, countCacheTTL)
	}
	return total, nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (exposure.Record, error) {
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, exposure.NewNotFound("Publisher")
	}

	rec, err := scanPublisher(r.pool.QueryRow(ctx,
		"SELECT id, name FROM publishers WHERE id = $1", pid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exposure.NewNotFound("Publisher")
		}
		return nil, exposure.NewInternal(err)
	}
	return rec, nil
}

func (r *postgresRepository) Create(ctx context.Context, attrs map[string]any) (exposure.Record, error) {
	name, _ := attrs["name"].(string)

	rec, err := scanPublisher(r.pool.QueryRow(ctx,
		"INSERT INTO publishers (name) VALUES ($1) RETURNING id, name", name))
	if err != nil {
		return nil, database.MapError(err, "Publisher")
	}

	r.invalidateCount(ctx)
	return rec, nil
}

func (r *postgresRepository) Update(ctx context.Context, id string, attrs map[string]any) (exposure.Record, error) {
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, exposure.NewNotFound("Publisher")
	}

	name, ok := attrs["name"].(string)
	if !ok {
		return nil, exposure.NewValidation("no updatable attributes in request")
	}

	rec, err := scanPublisher(r.pool.QueryRow(ctx,
		"UPDATE publishers SET name = $1 WHERE id = $2 RETURNING id, name", name, pid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exposure.NewNotFound("Publisher")
		}
		return nil, database.MapError(err, "Publisher")
	}
	return rec, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return exposure.NewNotFound("Publisher")
	}

	tag, err := r.pool.Exec(ctx, "DELETE FROM publishers WHERE id = $1", pid)
	if err != nil {
		return database.MapError(err, "Publisher")
	}
	if tag.RowsAffected() == 0 {
		return exposure.NewNotFound("Publisher")
	}

	r.invalidateCount(ctx)
	return nil
}

func (r *postgresRepository) invalidateCount(ctx context.Context) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, countCacheKey)
	}
}
