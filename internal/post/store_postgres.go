// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yomira-blog/internal/platform/database/schema"
	"github.com/taibuivan/yomira-blog/internal/platform/dberr"
	"github.com/taibuivan/yomira-blog/pkg/uuid"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed post store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	// selectColumns is the scan-ordered column list shared by every query.
	selectColumns = strings.Join(schema.BlogPost.Columns(), ", ")

	// sortColumns maps API sort keys to table columns.
	sortColumns = map[SortField]string{
		SortTitle:     schema.BlogPost.Title,
		SortViewCount: schema.BlogPost.ViewCount,
		SortUpdatedAt: schema.BlogPost.UpdatedAt,
		SortCreatedAt: schema.BlogPost.CreatedAt,
	}

	// searchColumns maps API field names to table columns.
	searchColumns = map[string]string{
		FieldTitle:   schema.BlogPost.Title,
		FieldContent: schema.BlogPost.Content,
		FieldExcerpt: schema.BlogPost.Excerpt,
	}

	// likeEscaper neutralises LIKE wildcards in user search terms.
	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

/*
Create inserts a new post. The identifier is a fresh UUIDv7 and both
timestamps come from the database clock.

Returns:
  - *Post: The persisted row
  - error: dberr.ErrUniqueViolation when the slug is already taken
*/
func (repository *PostgresRepository) Create(context context.Context, post NewPost) (*Post, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`,
		schema.BlogPost.Table,
		schema.BlogPost.ID, schema.BlogPost.Title, schema.BlogPost.Content, schema.BlogPost.Excerpt, schema.BlogPost.Slug,
		selectColumns,
	)

	row := repository.pool.QueryRow(context, query, uuid.New(), post.Title, post.Content, post.Excerpt, post.Slug)
	created, err := scanPost(row)
	if err != nil {
		return nil, dberr.Wrap(err, "create post")
	}
	return created, nil
}

// FindByID fetches a post by primary key. Malformed identifiers cannot match
// any row and are reported as not found without a round trip.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	if !uuid.Valid(id) {
		return nil, dberr.ErrNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.BlogPost.Table, schema.BlogPost.ID)

	found, err := scanPost(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find post by id")
	}
	return found, nil
}

// FindBySlug fetches a post by its unique slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.BlogPost.Table, schema.BlogPost.Slug)

	found, err := scanPost(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find post by slug")
	}
	return found, nil
}

/*
FindMany returns one page of posts.

Description: Filters with a case-sensitive LIKE over the predicate fields,
orders by the requested column with the id as tie-breaker so that pages are
stable, and applies LIMIT/OFFSET.
*/
func (repository *PostgresRepository) FindMany(context context.Context, query Query) ([]*Post, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf("SELECT %s FROM %s", selectColumns, schema.BlogPost.Table))

	// Search Filtering
	if where, whereArgs := buildWhere(query.Where, argID); where != "" {
		queryBuilder.WriteString(where)
		args = append(args, whereArgs...)
		argID += len(whereArgs)
	}

	// Apply Sorting
	sortColumn, ok := sortColumns[query.OrderBy]
	if !ok {
		sortColumn = schema.BlogPost.CreatedAt
	}
	sortDir := "DESC"
	if query.Direction == Asc {
		sortDir = "ASC"
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s, %s %s", sortColumn, sortDir, schema.BlogPost.ID, sortDir))

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, query.Take, query.Skip)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0, query.Take)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan post")
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate posts")
	}

	return posts, nil
}

// Count returns the number of posts matching the predicate.
func (repository *PostgresRepository) Count(context context.Context, where Predicate) (int, error) {
	clause, args := buildWhere(where, 1)
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", schema.BlogPost.Table, clause)

	var total int
	if err := repository.pool.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count posts")
	}
	return total, nil
}

/*
Update applies a partial change set and refreshes updatedAt.

Description: Only non-nil fields are written. An empty change set still
touches updatedAt so the row reflects the mutation.

Returns:
  - *Post: The row after the update
  - error: dberr.ErrNotFound or dberr.ErrUniqueViolation
*/
func (repository *PostgresRepository) Update(context context.Context, id string, changes Changes) (*Post, error) {
	if !uuid.Valid(id) {
		return nil, dberr.ErrNotFound
	}

	var setBuilder strings.Builder
	var args []any
	argID := 1

	set := func(column string, value any) {
		setBuilder.WriteString(fmt.Sprintf("%s = $%d, ", column, argID))
		args = append(args, value)
		argID++
	}

	if changes.Title != nil {
		set(schema.BlogPost.Title, *changes.Title)
	}
	if changes.Content != nil {
		set(schema.BlogPost.Content, *changes.Content)
	}
	if !changes.Excerpt.IsZero() {
		// Clear binds a NULL.
		set(schema.BlogPost.Excerpt, changes.Excerpt.Apply(nil))
	}
	if changes.Slug != nil {
		set(schema.BlogPost.Slug, *changes.Slug)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s%s = NOW() WHERE %s = $%d RETURNING %s`,
		schema.BlogPost.Table,
		setBuilder.String(), schema.BlogPost.UpdatedAt,
		schema.BlogPost.ID, argID,
		selectColumns,
	)
	args = append(args, id)

	updated, err := scanPost(repository.pool.QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.Wrap(err, "update post")
	}
	return updated, nil
}

// Delete removes a post permanently.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return dberr.ErrNotFound
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.BlogPost.Table, schema.BlogPost.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete post")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
IncrementViewCount atomically adds delta to the view counter.

Description: A single UPDATE with an in-place addition, so concurrent
increments never lose an update.
*/
func (repository *PostgresRepository) IncrementViewCount(context context.Context, id string, delta int) (*Post, error) {
	if !uuid.Valid(id) {
		return nil, dberr.ErrNotFound
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + $1, %s = NOW()
		WHERE %s = $2
		RETURNING %s`,
		schema.BlogPost.Table,
		schema.BlogPost.ViewCount, schema.BlogPost.ViewCount, schema.BlogPost.UpdatedAt,
		schema.BlogPost.ID,
		selectColumns,
	)

	updated, err := scanPost(repository.pool.QueryRow(context, query, delta, id))
	if err != nil {
		return nil, dberr.Wrap(err, "increment view count")
	}
	return updated, nil
}

// # Helpers

// buildWhere renders the predicate as an OR of LIKE matches starting at
// placeholder $argID. The same escaped pattern is bound once and reused.
func buildWhere(where Predicate, argID int) (string, []any) {
	if where.IsZero() {
		return "", nil
	}

	fields := where.Fields
	if len(fields) == 0 {
		fields = searchFields
	}

	var clauses []string
	for _, field := range fields {
		column, ok := searchColumns[field]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf(`%s LIKE $%d ESCAPE '\'`, column, argID))
	}
	if len(clauses) == 0 {
		return "", nil
	}

	pattern := "%" + likeEscaper.Replace(where.Search) + "%"
	return " WHERE (" + strings.Join(clauses, " OR ") + ")", []any{pattern}
}

// scanPost reads one row in [schema.BlogPostTable.Columns] order.
func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.Slug,
		&post.ViewCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}
