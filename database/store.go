package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookshelf/models"

	"gorm.io/gorm"
)

// Query describes a list request against a Store.
//
// Filters are column equality checks. Search is split on whitespace; every
// term must match at least one of SearchFields (case-insensitive substring).
// Ordering is a comma separated list of field names, "-" prefix for
// descending; names not in OrderingFields are ignored.
type Query struct {
	Filters         map[string]interface{}
	Search          string
	SearchFields    []string
	Ordering        string
	OrderingFields  []string
	DefaultOrdering string
	Limit           int
	Offset          int
	Preloads        []string
	Scopes          []func(*gorm.DB) *gorm.DB
}

// Store is the entity store for one model kind.
type Store[T any] struct {
	db       *gorm.DB
	resource string
}

func NewStore[T any](db *gorm.DB, resource string) *Store[T] {
	return &Store[T]{db: db, resource: resource}
}

func (s *Store[T]) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// WithTx returns a store bound to tx, for use inside Transaction.
func (s *Store[T]) WithTx(tx *gorm.DB) *Store[T] {
	return &Store[T]{db: tx, resource: s.resource}
}

func (s *Store[T]) Create(ctx context.Context, record *T) error {
	return s.translate(s.DB(ctx).Create(record).Error)
}

func (s *Store[T]) Get(ctx context.Context, id uint, preloads ...string) (*T, error) {
	var record T
	q := s.DB(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&record, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &record, nil
}

// First returns the first record matching q.
func (s *Store[T]) First(ctx context.Context, q Query) (*T, error) {
	var record T
	if err := s.apply(ctx, q).First(&record).Error; err != nil {
		return nil, s.translate(err)
	}
	return &record, nil
}

func (s *Store[T]) List(ctx context.Context, q Query) ([]T, error) {
	records := []T{}
	if err := s.apply(ctx, q).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store[T]) Count(ctx context.Context, q Query) (int64, error) {
	var n int64
	q.Limit, q.Offset, q.Preloads, q.Ordering, q.DefaultOrdering = 0, 0, nil, "", ""
	err := s.apply(ctx, q).Model(new(T)).Count(&n).Error
	return n, err
}

// Update applies fields to the record and returns it reloaded.
func (s *Store[T]) Update(ctx context.Context, id uint, fields map[string]interface{}) (*T, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.DB(ctx).Model(record).Updates(fields).Error; err != nil {
			return nil, s.translate(err)
		}
	}
	return s.Get(ctx, id)
}

func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	result := s.DB(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NotFoundError(s.resource)
	}
	return nil
}

func (s *Store[T]) apply(ctx context.Context, q Query) *gorm.DB {
	db := s.DB(ctx).Model(new(T))

	for column, value := range q.Filters {
		db = db.Where(fmt.Sprintf("%s = ?", column), value)
	}

	if len(q.SearchFields) > 0 {
		for _, term := range strings.Fields(q.Search) {
			pattern := ContainsPattern(term)
			clauses := make([]string, 0, len(q.SearchFields))
			args := make([]interface{}, 0, len(q.SearchFields))
			for _, field := range q.SearchFields {
				clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", field))
				args = append(args, pattern)
			}
			db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}

	if len(q.Scopes) > 0 {
		db = db.Scopes(q.Scopes...)
	}

	ordered := false
	for _, clause := range OrderClauses(q.Ordering, q.OrderingFields) {
		db = db.Order(clause)
		ordered = true
	}
	if !ordered {
		for _, clause := range OrderClauses(q.DefaultOrdering, nil) {
			db = db.Order(clause)
		}
	}

	for _, p := range q.Preloads {
		db = db.Preload(p)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	return db
}

// OrderClauses turns "a,-b" into ["a ASC", "b DESC"], dropping fields not
// in allowed. A nil allowed list accepts every field.
func OrderClauses(ordering string, allowed []string) []string {
	var out []string
	for _, raw := range strings.Split(ordering, ",") {
		field := strings.TrimSpace(raw)
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			field, dir = field[1:], "DESC"
		}
		if field == "" || (allowed != nil && !contains(allowed, field)) {
			continue
		}
		out = append(out, field+" "+dir)
	}
	return out
}

// ContainsPattern builds a lower-cased LIKE pattern matching term as a
// literal substring. Use it with ESCAPE '\'.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (s *Store[T]) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NotFoundError(s.resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", models.ErrConflict, s.resource)
	}
	return err
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
