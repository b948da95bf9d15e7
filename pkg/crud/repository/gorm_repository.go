package repository

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/materials-commons/mccrud/pkg/mcdb"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const (
	defaultPerPage = 15
	eachBatchSize  = 100
)

// Filterable is implemented by models that narrow down an index query
// from the (non blank) request params.
type Filterable interface {
	Filter(db *gorm.DB, params map[string]string) *gorm.DB
}

// PerPager is implemented by models with their own page size.
type PerPager interface {
	PerPage() int
}

var gormOperators = map[string]string{
	"":         "=",
	"=":        "=",
	"!=":       "<>",
	"<>":       "<>",
	"<":        "<",
	"<=":       "<=",
	">":        ">",
	">=":       ">=",
	"like":     "LIKE",
	"not like": "NOT LIKE",
	"in":       "IN",
	"not in":   "NOT IN",
}

// GormRepository serves the records of the gorm model T.
type GormRepository[T any] struct {
	BaseRepository
	db       *gorm.DB
	primary  *schema.Field
	scopes   []func(*gorm.DB) *gorm.DB
	preloads []string
	columns  []string
	limit    int
	err      error
}

func NewGormRepository[T any](db *gorm.DB) *GormRepository[T] {
	r := &GormRepository[T]{db: db}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err == nil {
		r.primary = stmt.Schema.PrioritizedPrimaryField
	}

	return r
}

// GormFactory returns a constructor of fresh repositories for T, one per request.
func GormFactory[T any](db *gorm.DB) func() Repository {
	return func() Repository {
		return NewGormRepository[T](db)
	}
}

func (r *GormRepository[T]) KeyName() string {
	if r.primary == nil {
		return "id"
	}

	return r.primary.DBName
}

func (r *GormRepository[T]) PerPage() int {
	if p, ok := any(new(T)).(PerPager); ok && p.PerPage() > 0 {
		return p.PerPage()
	}

	return defaultPerPage
}

func (r *GormRepository[T]) setErr(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *GormRepository[T]) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Scopes(r.scopes...)
}

func (r *GormRepository[T]) fetch(ctx context.Context) *gorm.DB {
	q := r.base(ctx)
	if len(r.columns) != 0 {
		q = q.Select(r.columns)
	}

	for _, relation := range r.preloads {
		q = q.Preload(relation)
	}

	if r.limit > 0 {
		q = q.Limit(r.limit)
	}

	return q
}

func (r *GormRepository[T]) All(ctx context.Context) ([]any, error) {
	if r.err != nil {
		return nil, r.err
	}

	var rows []T
	if err := r.fetch(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	return r.presentAll(toRecords(rows)), nil
}

func (r *GormRepository[T]) First(ctx context.Context) (any, error) {
	if r.err != nil {
		return nil, r.err
	}

	var m T
	if err := r.fetch(ctx).Take(&m).Error; err != nil {
		return nil, notFound(err, "first")
	}

	return r.present(&m), nil
}

func (r *GormRepository[T]) Each(ctx context.Context, fn func(record any) error) error {
	if r.err != nil {
		return r.err
	}

	q := r.fetch(ctx)

	if len(r.preloads) != 0 {
		var batch []T
		return q.FindInBatches(&batch, eachBatchSize, func(_ *gorm.DB, _ int) error {
			for i := range batch {
				if err := fn(r.present(&batch[i])); err != nil {
					return err
				}
			}
			return nil
		}).Error
	}

	rows, err := q.Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var m T
		if err := q.ScanRows(rows, &m); err != nil {
			return err
		}

		if err := fn(r.present(&m)); err != nil {
			return err
		}
	}

	return rows.Err()
}

func (r *GormRepository[T]) Paginate(ctx context.Context, page, limit int) (*Page, error) {
	if r.err != nil {
		return nil, r.err
	}

	if limit <= 0 {
		limit = r.PerPage()
	}

	if page < 1 {
		page = 1
	}

	var total int64
	if err := r.base(ctx).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []T
	if err := r.fetch(ctx).Offset((page - 1) * limit).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	return NewPage(r.presentAll(toRecords(rows)), page, limit, total), nil
}

func (r *GormRepository[T]) find(ctx context.Context, q *gorm.DB, id string) (*T, error) {
	var m T
	err := q.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: r.KeyName()}, Value: id}).
		Take(&m).Error
	if err != nil {
		return nil, notFound(err, id)
	}

	return &m, nil
}

func (r *GormRepository[T]) Find(ctx context.Context, id string) (any, error) {
	if r.err != nil {
		return nil, r.err
	}

	m, err := r.find(ctx, r.fetch(ctx), id)
	if err != nil {
		return nil, err
	}

	return r.present(m), nil
}

// Create decodes attrs onto a new model (matching on json names) and saves it.
func (r *GormRepository[T]) Create(ctx context.Context, attrs map[string]any) (any, error) {
	m := new(T)
	if err := decodeAttrs(attrs, m); err != nil {
		return nil, err
	}

	err := mcdb.WithTxRetry(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})

	if err != nil {
		return nil, err
	}

	return m, nil
}

func (r *GormRepository[T]) Update(ctx context.Context, attrs map[string]any, id string) (any, error) {
	m, err := r.find(ctx, r.db.WithContext(ctx).Model(new(T)), id)
	if err != nil {
		return nil, err
	}

	if err := decodeAttrs(attrs, m); err != nil {
		return nil, err
	}

	err = mcdb.WithTxRetry(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Save(m).Error
	})

	if err != nil {
		return nil, err
	}

	return m, nil
}

// Delete removes every listed record in a single transaction. Nothing is
// deleted when one of the ids does not exist.
func (r *GormRepository[T]) Delete(ctx context.Context, id string) error {
	ids := uniqueIDs(SplitIDs(id))
	if len(ids) == 0 {
		return errors.Wrapf(ErrNotFound, "'%s'", id)
	}

	values := make([]any, len(ids))
	for i, v := range ids {
		values[i] = v
	}

	return mcdb.WithTxRetry(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var rows []T
		err := tx.Where(clause.IN{Column: clause.Column{Table: clause.CurrentTable, Name: r.KeyName()}, Values: values}).
			Find(&rows).Error
		if err != nil {
			return err
		}

		if len(rows) != len(ids) {
			return errors.Wrapf(ErrNotFound, "'%s'", id)
		}

		for i := range rows {
			if err := tx.Delete(&rows[i]).Error; err != nil {
				return errors.Wrapf(err, "record %v not deleted", r.keyOf(ctx, &rows[i]))
			}
		}

		return nil
	})
}

func (r *GormRepository[T]) keyOf(ctx context.Context, m *T) any {
	if r.primary == nil {
		return "?"
	}

	v, _ := r.primary.ValueOf(ctx, reflect.ValueOf(m).Elem())
	return v
}

func (r *GormRepository[T]) OrderBy(column, direction string) Repository {
	if err := checkColumn(column); err != nil {
		r.setErr(err)
		return r
	}

	r.scopes = append(r.scopes, func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: isDescending(direction)})
	})

	return r
}

// Where adds a constraint. Column names are quoted and operators must be
// one of =, !=, <>, <, <=, >, >=, like, not like, in, not in.
func (r *GormRepository[T]) Where(column, operator string, value any) Repository {
	if err := checkColumn(column); err != nil {
		r.setErr(err)
		return r
	}

	op, ok := gormOperators[strings.ToLower(strings.TrimSpace(operator))]
	if !ok {
		r.setErr(errors.Wrapf(ErrInvalidOperator, "'%s'", operator))
		return r
	}

	if s, isString := value.(string); isString && (op == "IN" || op == "NOT IN") {
		value = SplitIDs(s)
	}

	r.scopes = append(r.scopes, func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Expr{SQL: "? " + op + " ?", Vars: []any{clause.Column{Name: column}, value}})
	})

	return r
}

func (r *GormRepository[T]) WhereKey(ids ...string) Repository {
	return r.Where(r.KeyName(), "in", SplitIDs(ids...))
}

func (r *GormRepository[T]) Limit(n int) Repository {
	r.limit = n
	return r
}

func (r *GormRepository[T]) Select(columns ...string) Repository {
	for _, column := range columns {
		if err := checkColumn(column); err != nil {
			r.setErr(err)
			return r
		}
	}

	r.columns = columns
	return r
}

// With eager loads relations, for example With("Owner").
func (r *GormRepository[T]) With(relations ...string) Repository {
	r.preloads = append(r.preloads, relations...)
	return r
}

func (r *GormRepository[T]) ApplyFilters(params map[string]string) Repository {
	f, ok := any(new(T)).(Filterable)
	if !ok {
		return r
	}

	filters := make(map[string]string, len(params))
	for key, value := range params {
		if value != "" {
			filters[key] = value
		}
	}

	r.scopes = append(r.scopes, func(db *gorm.DB) *gorm.DB {
		return f.Filter(db, filters)
	})

	return r
}

func toRecords[T any](rows []T) []any {
	records := make([]any, len(rows))
	for i := range rows {
		records[i] = &rows[i]
	}

	return records
}

func notFound(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(ErrNotFound, "'%s'", id)
	}

	return err
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	return out
}

func decodeAttrs(attrs map[string]any, model any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		Result:           model,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}

	return errors.Wrap(decoder.Decode(attrs), "decoding attributes")
}
