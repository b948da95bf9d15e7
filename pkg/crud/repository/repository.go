// Package repository is the data access layer behind crud entities. A
// Repository accumulates query constraints through its chainable methods and
// resolves them when one of the context taking methods is called.
package repository

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrNotSupported    = errors.New("operation not supported by repository")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrInvalidOperator = errors.New("invalid operator")
)

// Presenter transforms a record before it is handed out by a repository.
type Presenter func(record any) any

type Repository interface {
	All(ctx context.Context) ([]any, error)
	First(ctx context.Context) (any, error)

	// Each streams the matching records to fn, stopping at the first error.
	Each(ctx context.Context, fn func(record any) error) error

	// Paginate returns the given 1 based page. A limit of 0 uses PerPage.
	Paginate(ctx context.Context, page, limit int) (*Page, error)
	Find(ctx context.Context, id string) (any, error)
	Create(ctx context.Context, attrs map[string]any) (any, error)
	Update(ctx context.Context, attrs map[string]any, id string) (any, error)

	// Delete removes one or more records, id may be a comma separated list.
	Delete(ctx context.Context, id string) error

	OrderBy(column, direction string) Repository
	Where(column, operator string, value any) Repository
	WhereKey(ids ...string) Repository
	Limit(n int) Repository
	Select(columns ...string) Repository
	ApplyFilters(params map[string]string) Repository

	SetPresenter(presenter Presenter)
	KeyName() string
	PerPage() int
}

// Preloader is implemented by repositories that can eager load relations.
type Preloader interface {
	With(relations ...string) Repository
}

type Page struct {
	Data        []any `json:"data"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
	Total       int64 `json:"total"`
}

// NewPage describes the page of data. A limit of 0 means all records are on
// the single page.
func NewPage(data []any, page, limit int, total int64) *Page {
	if page < 1 {
		page = 1
	}

	if data == nil {
		data = []any{}
	}

	p := &Page{
		Data:        data,
		CurrentPage: page,
		LastPage:    1,
		PerPage:     limit,
		Total:       total,
	}

	if limit > 0 {
		p.LastPage = int(math.Max(1, math.Ceil(float64(total)/float64(limit))))
	} else {
		p.PerPage = int(total)
	}

	if len(data) > 0 {
		p.From = (page-1)*limit + 1
		p.To = p.From + len(data) - 1
	}

	return p
}

// SplitIDs splits a comma separated list of ids, dropping blanks.
func SplitIDs(ids ...string) []string {
	var out []string
	for _, id := range ids {
		for _, part := range strings.Split(id, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

var columnName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

func checkColumn(column string) error {
	if !columnName.MatchString(column) {
		return errors.Wrapf(ErrInvalidColumn, "'%s'", column)
	}

	return nil
}

func isDescending(direction string) bool {
	return strings.EqualFold(strings.TrimSpace(direction), "desc")
}

// BaseRepository holds the presenter shared by the implementations.
type BaseRepository struct {
	presenter Presenter
}

func (r *BaseRepository) SetPresenter(presenter Presenter) {
	r.presenter = presenter
}

func (r *BaseRepository) present(record any) any {
	if r.presenter == nil {
		return record
	}

	return r.presenter(record)
}

func (r *BaseRepository) presentAll(records []any) []any {
	if r.presenter == nil {
		return records
	}

	for i, record := range records {
		records[i] = r.presenter(record)
	}

	return records
}
