package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/materials-commons/mccrud/pkg/obj"
	"github.com/pkg/errors"
)

// Callback produces the complete record set of a CallbackRepository.
type Callback func(ctx context.Context) ([]map[string]any, error)

type where struct {
	column   string
	operator string
	value    any
}

type order struct {
	column string
	desc   bool
}

// CallbackRepository is a read only repository over the records returned
// by a callback. Constraints are evaluated in memory and cleared after
// every resolution.
type CallbackRepository struct {
	BaseRepository
	callback Callback
	keyName  string
	perPage  int
	wheres   []where
	order    *order
	columns  []string
	limit    int
	err      error
}

func NewCallbackRepository(callback Callback, keyName string) *CallbackRepository {
	if keyName == "" {
		keyName = "id"
	}

	return &CallbackRepository{callback: callback, keyName: keyName}
}

// CallbackFactory returns a constructor of fresh repositories over callback.
func CallbackFactory(callback Callback, keyName string) func() Repository {
	return func() Repository {
		return NewCallbackRepository(callback, keyName)
	}
}

func (r *CallbackRepository) KeyName() string {
	return r.keyName
}

// PerPage is 0 unless set: a callback repository paginates everything onto one page.
func (r *CallbackRepository) PerPage() int {
	return r.perPage
}

func (r *CallbackRepository) SetPerPage(n int) *CallbackRepository {
	r.perPage = n
	return r
}

func (r *CallbackRepository) reset() {
	r.wheres = nil
	r.order = nil
	r.columns = nil
	r.limit = 0
	r.err = nil
}

// resolve runs the callback and applies the constraints. The limit is left
// to the caller since pagination needs the full count.
func (r *CallbackRepository) resolve(ctx context.Context) ([]map[string]any, int, error) {
	defer r.reset()

	if r.err != nil {
		return nil, 0, r.err
	}

	records, err := r.callback(ctx)
	if err != nil {
		return nil, 0, err
	}

	results := make([]map[string]any, 0, len(records))
	for _, record := range records {
		if r.matches(record) {
			results = append(results, record)
		}
	}

	if r.order != nil {
		o := *r.order
		sort.SliceStable(results, func(i, j int) bool {
			a, _ := obj.Dig(results[i], o.column)
			b, _ := obj.Dig(results[j], o.column)
			if o.desc {
				return naturalLess(b, a)
			}
			return naturalLess(a, b)
		})
	}

	if len(r.columns) != 0 {
		for i, record := range results {
			results[i] = only(record, r.columns)
		}
	}

	return results, r.limit, nil
}

func (r *CallbackRepository) matches(record map[string]any) bool {
	for _, w := range r.wheres {
		actual, _ := obj.Dig(record, w.column)
		if !compare(actual, w.operator, w.value) {
			return false
		}
	}

	return true
}

func only(record map[string]any, columns []string) map[string]any {
	m := make(map[string]any, len(columns))
	for _, column := range columns {
		if v, ok := record[column]; ok {
			m[column] = v
		}
	}

	return m
}

func limited(records []map[string]any, limit int) []map[string]any {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}

	return records
}

func toAny(records []map[string]any) []any {
	out := make([]any, len(records))
	for i, record := range records {
		out[i] = record
	}

	return out
}

func (r *CallbackRepository) All(ctx context.Context) ([]any, error) {
	records, limit, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}

	return r.presentAll(toAny(limited(records, limit))), nil
}

func (r *CallbackRepository) First(ctx context.Context) (any, error) {
	records, _, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errors.Wrap(ErrNotFound, "first")
	}

	return r.present(records[0]), nil
}

func (r *CallbackRepository) Each(ctx context.Context, fn func(record any) error) error {
	records, limit, err := r.resolve(ctx)
	if err != nil {
		return err
	}

	for _, record := range limited(records, limit) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(r.present(record)); err != nil {
			return err
		}
	}

	return nil
}

// Paginate slices the resolved records. A limit of 0 (and no PerPage) puts
// every record on a single page.
func (r *CallbackRepository) Paginate(ctx context.Context, page, limit int) (*Page, error) {
	if limit <= 0 {
		limit = r.PerPage()
	}

	if page < 1 {
		page = 1
	}

	records, _, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}

	total := len(records)
	slice := records
	if limit > 0 {
		start := (page - 1) * limit
		switch {
		case start >= total:
			slice = nil
		case start+limit > total:
			slice = records[start:]
		default:
			slice = records[start : start+limit]
		}
	}

	return NewPage(r.presentAll(toAny(slice)), page, limit, int64(total)), nil
}

func (r *CallbackRepository) Find(ctx context.Context, id string) (any, error) {
	record, err := r.WhereKey(id).First(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "'%s'", id)
	}

	return record, err
}

func (r *CallbackRepository) Create(_ context.Context, _ map[string]any) (any, error) {
	return nil, errors.Wrap(ErrNotSupported, "create")
}

func (r *CallbackRepository) Update(_ context.Context, _ map[string]any, _ string) (any, error) {
	return nil, errors.Wrap(ErrNotSupported, "update")
}

func (r *CallbackRepository) Delete(_ context.Context, _ string) error {
	return errors.Wrap(ErrNotSupported, "delete")
}

func (r *CallbackRepository) OrderBy(column, direction string) Repository {
	r.order = &order{column: column, desc: isDescending(direction)}
	return r
}

func (r *CallbackRepository) Where(column, operator string, value any) Repository {
	operator = strings.TrimSpace(operator)
	if !callbackOperators[operator] {
		r.setErr(errors.Wrapf(ErrInvalidOperator, "'%s'", operator))
		return r
	}

	r.wheres = append(r.wheres, where{column: column, operator: operator, value: value})
	return r
}

// WhereKey matches any of the ids.
func (r *CallbackRepository) WhereKey(ids ...string) Repository {
	ids = SplitIDs(ids...)
	if len(ids) == 1 {
		return r.Where(r.keyName, "=", ids[0])
	}

	r.wheres = append(r.wheres, where{column: r.keyName, operator: "in", value: ids})
	return r
}

func (r *CallbackRepository) Limit(n int) Repository {
	r.limit = n
	return r
}

func (r *CallbackRepository) Select(columns ...string) Repository {
	r.columns = columns
	return r
}

// ApplyFilters adds an equality constraint for every non blank param other
// than the key, page and size.
func (r *CallbackRepository) ApplyFilters(params map[string]string) Repository {
	for key, value := range params {
		switch key {
		case r.keyName, "page", "size":
			continue
		}

		if value != "" {
			r.Where(key, "=", value)
		}
	}

	return r
}

func (r *CallbackRepository) setErr(err error) {
	if r.err == nil {
		r.err = err
	}
}
