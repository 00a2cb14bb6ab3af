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

	"bookshelf-api/internal/domains/person"
	"bookshelf-api/internal/exposure"
	"bookshelf-api/internal/infrastructure/database"
	"bookshelf-api/internal/shared/utils"
	"bookshelf-api/pkg/cache"
)

const (
	selectCols    = "id, name, email, comment, dob, created_at"
	countCacheKey = "count:people"
	countCacheTTL = 30 * time.Second
)

var columns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"comment":    "comment",
	"dob":        "dob",
	"created_at": "created_at",
}

// postgresRepository implements exposure.Storage for Person rows.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) exposure.Storage {
	return &postgresRepository{pool: pool, cache: c}
}

func scanPerson(row pgx.Row) (*person.Person, error) {
	var p person.Person
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Comment, &p.DOB, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) List(ctx context.Context, p exposure.ListParams) ([]exposure.Record, int, error) {
	where, args := utils.WhereClause(columns, p.Filters)
	order := utils.OrderClause(columns, p.Sort)

	query := fmt.Sprintf("SELECT %s FROM people%s%s LIMIT $%d OFFSET $%d",
		selectCols, where, order, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, database.MapError(err, "Person")
	}
	defer rows.Close()

	records := []exposure.Record{}
	for rows.Next() {
		rec, err := scanPerson(rows)
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

// count caches the unfiltered total briefly; filtered counts always hit
// the database.
func (r *postgresRepository) count(ctx context.Context, where string, args []any) (int, error) {
	cacheable := where == "" && r.cache != nil
	if cacheable {
		var total int
		if found, err := r.cache.Get(ctx, countCacheKey, &total); err == nil && found {
			return total, nil
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM people"+where, args...).Scan(&total); err != nil {
		return 0, database.MapError(err, "Person")
	}

	if cacheable {
		_ = r.cache.Set(ctx, countCacheKey, total, countCacheTTL)
	}
	return total, nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (exposure.Record, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, exposure.NewNotFound("Person")
	}

	rec, err := scanPerson(r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM people WHERE id = $1", selectCols), pid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exposure.NewNotFound("Person")
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

	dob, err := parseDOB(attrs["dob"])
	if err != nil {
		return nil, err
	}

	comment := "comment"
	if v, ok := attrs["comment"].(string); ok {
		comment = v
	}

	rec, err := scanPerson(r.pool.QueryRow(ctx, fmt.Sprintf(`
    INSERT INTO people (id, name, email, comment, dob, password)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING %s`, selectCols),
		id, strAttr(attrs, "name"), strAttr(attrs, "email"), comment, dob, strAttr(attrs, "password")))
	if err != nil {
		return nil, database.MapError(err, "Person")
	}

	r.invalidateCount(ctx)
	return rec, nil
}

func (r *postgresRepository) Update(ctx context.Context, id string, attrs map[string]any) (exposure.Record, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, exposure.NewNotFound("Person")
	}

	sets := []string{}
	args := []any{}
	addSet := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	for _, col := range []string{"name", "email", "comment", "password"} {
		if v, ok := attrs[col].(string); ok {
			addSet(col, v)
		}
	}
	if raw, ok := attrs["dob"]; ok {
		dob, err := parseDOB(raw)
		if err != nil {
			return nil, err
		}
		addSet("dob", dob)
	}
	if len(sets) == 0 {
		return nil, exposure.NewValidation("no updatable attributes in request")
	}

	args = append(args, pid)
	rec, err := scanPerson(r.pool.QueryRow(ctx, fmt.Sprintf(
		"UPDATE people SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), selectCols), args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exposure.NewNotFound("Person")
		}
		return nil, database.MapError(err, "Person")
	}
	return rec, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return exposure.NewNotFound("Person")
	}

	tag, err := r.pool.Exec(ctx, "DELETE FROM people WHERE id = $1", pid)
	if err != nil {
		return database.MapError(err, "Person")
	}
	if tag.RowsAffected() == 0 {
		return exposure.NewNotFound("Person")
	}

	r.invalidateCount(ctx)
	return nil
}

func (r *postgresRepository) invalidateCount(ctx context.Context) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, countCacheKey)
	}
}

func strAttr(attrs map[string]any, key string) string {
	v, _ := attrs[key].(string)
	return v
}

func parseDOB(raw any) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, exposure.NewValidation("dob must be formatted YYYY-MM-DD")
	}
	return &t, nil
}
