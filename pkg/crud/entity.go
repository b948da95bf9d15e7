// Package crud describes resources (entities) as a schema for the frontend
// table and form renderers and serves their records through a repository.
package crud

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/crud/buttons"
	"github.com/materials-commons/mccrud/pkg/crud/columns"
	"github.com/materials-commons/mccrud/pkg/crud/computed"
	"github.com/materials-commons/mccrud/pkg/crud/fields"
	"github.com/materials-commons/mccrud/pkg/crud/naming"
	"github.com/materials-commons/mccrud/pkg/crud/repository"
	"github.com/materials-commons/mccrud/pkg/decoder"
	"github.com/pkg/errors"
)

// Operations an entity may allow.
const (
	OpCreate = 'C'
	OpRead   = 'R'
	OpUpdate = 'U'
	OpDelete = 'D'
)

const (
	ComputedOnFields  = "fields"
	ComputedOnColumns = "columns"
)

// Action handles a custom action. id is "action" when the action was not
// called for a specific record, otherwise one or more comma separated ids.
type Action func(c echo.Context, e *Entity, id string) error

var defaultPaginationSizeMultipliers = []int{1, 2, 3, 4, 5, 10}

var validate = validator.New()

type Entity struct {
	// Name of the entity, the resource defaults to its plural kebab case.
	Name     string
	Resource string

	// KeyName overrides the key name reported by the repository.
	KeyName string

	// NewRepository is called for every request that needs data.
	NewRepository func() repository.Repository

	// Operations is a subset of "CRUD". Empty allows all of them.
	Operations string

	Form       func(f *fields.Factory)
	SearchForm func(f *fields.Factory)
	Columns    func(f *columns.Factory)

	FormAttrs     map[string]any
	TableAttrs    map[string]any
	ExtraButtons  []buttons.Button
	HeaderButtons []buttons.Button

	SingleSelection bool

	// PaginationSize of 0 uses the repository page size, -1 disables pagination.
	PaginationSize            int
	PaginationSizeMultipliers []int

	Actions map[string]Action

	// Rules returns validator tags by field id, they replace the default rules.
	Rules func(id string) map[string]string

	// Transform is applied to every record before computed attributes are added.
	Transform func(record any) any

	// WithComputedOn lists where computed attributes are read from:
	// ComputedOnFields and/or ComputedOnColumns.
	WithComputedOn []string

	uri string

	buildOnce    sync.Once
	buildErr     error
	fields       *fields.Collection
	searchFields *fields.Collection
	columns      *columns.Collection
	computed     map[string]computed.Func
}

func (e *Entity) build() error {
	e.buildOnce.Do(func() {
		e.fields = fields.NewCollection()
		e.searchFields = fields.NewCollection()
		e.columns = columns.NewCollection()

		if e.Form != nil {
			f := fields.NewFactory(e.fields)
			e.Form(f)
			if err := f.Err(); err != nil {
				e.buildErr = errors.Wrapf(err, "%s form", e.ResourceName())
				return
			}
		}

		if e.SearchForm != nil {
			f := fields.NewFactory(e.searchFields)
			e.SearchForm(f)
			if err := f.Err(); err != nil {
				e.buildErr = errors.Wrapf(err, "%s search form", e.ResourceName())
				return
			}
		}

		if e.Columns != nil {
			f := columns.NewFactory(e.columns)
			e.Columns(f)
			if err := f.Err(); err != nil {
				e.buildErr = errors.Wrapf(err, "%s columns", e.ResourceName())
				return
			}
		}

		e.computed = make(map[string]computed.Func)
		for _, on := range e.WithComputedOn {
			var c map[string]computed.Func
			switch on {
			case ComputedOnFields:
				c = e.fields.Computed()
			case ComputedOnColumns:
				c = e.columns.Computed()
			}

			// First source wins.
			for key, fn := range c {
				if _, ok := e.computed[key]; !ok {
					e.computed[key] = fn
				}
			}
		}
	})

	return e.buildErr
}

// Fields returns the form fields, built on first use.
func (e *Entity) Fields() (*fields.Collection, error) {
	if err := e.build(); err != nil {
		return nil, err
	}

	return e.fields, nil
}

func (e *Entity) SearchFields() (*fields.Collection, error) {
	if err := e.build(); err != nil {
		return nil, err
	}

	return e.searchFields, nil
}

func (e *Entity) ColumnList() (*columns.Collection, error) {
	if err := e.build(); err != nil {
		return nil, err
	}

	return e.columns, nil
}

func (e *Entity) Computed() (map[string]computed.Func, error) {
	if err := e.build(); err != nil {
		return nil, err
	}

	return e.computed, nil
}

func (e *Entity) ResourceName() string {
	if e.Resource != "" {
		return e.Resource
	}

	return naming.Resource(e.Name)
}

// Title is used by menus and views.
func (e *Entity) Title() string {
	if e.Name != "" {
		return naming.Title(naming.Kebab(e.Name))
	}

	return naming.Title(e.ResourceName())
}

func (e *Entity) Allows(op rune) bool {
	ops := e.Operations
	if ops == "" {
		ops = "CRUD"
	}

	return strings.ContainsRune(strings.ToUpper(ops), op)
}

// Repository returns a fresh repository for the entity.
func (e *Entity) Repository() (repository.Repository, error) {
	if e.NewRepository == nil {
		return nil, errors.Wrapf(ErrNoRepository, "'%s'", e.ResourceName())
	}

	return e.NewRepository(), nil
}

func (e *Entity) Key() string {
	if e.KeyName != "" {
		return e.KeyName
	}

	if repo, err := e.Repository(); err == nil {
		return repo.KeyName()
	}

	return "id"
}

func (e *Entity) APIURI() string {
	return e.uri
}

func (e *Entity) ResourceURI() string {
	return e.uri + "/" + e.ResourceName()
}

// ActionURI builds the uri of a registered custom action. An empty id
// addresses the action without a record.
func (e *Entity) ActionURI(action string, params url.Values, id string) (string, error) {
	if _, ok := e.Actions[action]; !ok {
		return "", &ActionNotFoundError{Action: action, Resource: e.ResourceName()}
	}

	if id == "" {
		id = "action"
	}

	uri := fmt.Sprintf("%s/%s/%s", e.ResourceURI(), id, action)
	if len(params) != 0 {
		uri += "?" + params.Encode()
	}

	return uri, nil
}

// Pagination returns the page size and the sizes offered to the user.
func (e *Entity) Pagination() (size int, sizes []int) {
	switch {
	case e.PaginationSize > 0:
		size = e.PaginationSize
	case e.PaginationSize == 0:
		if repo, err := e.Repository(); err == nil {
			size = repo.PerPage()
		}
	}

	multipliers := e.PaginationSizeMultipliers
	if len(multipliers) == 0 {
		multipliers = defaultPaginationSizeMultipliers
	}

	sizes = make([]int, len(multipliers))
	for i, m := range multipliers {
		sizes[i] = m * size
	}

	return size, sizes
}

func (e *Entity) Schema() (*Schema, error) {
	if err := e.build(); err != nil {
		return nil, err
	}

	size, sizes := e.Pagination()

	return &Schema{
		ID:               e.Key(),
		Class:            e.ResourceName(),
		URL:              e.ResourceURI(),
		Columns:          e.columns,
		Form:             e.fields,
		SearchForm:       e.searchFields,
		FormAttrs:        nonNilMap(e.FormAttrs),
		TableAttrs:       nonNilMap(e.TableAttrs),
		ExtraButtons:     nonNilButtons(e.ExtraButtons),
		HeaderButtons:    nonNilButtons(e.HeaderButtons),
		Single:           e.SingleSelection,
		HasNew:           e.Allows(OpCreate),
		HasView:          e.Allows(OpRead),
		HasEdit:          e.Allows(OpUpdate),
		HasDelete:        e.Allows(OpDelete),
		HasPagination:    size > 0,
		PaginationSize:   size,
		PaginationSizes:  sizes,
		PaginationLayout: paginationLayout,
	}, nil
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}

	return m
}

func nonNilButtons(b []buttons.Button) []buttons.Button {
	if b == nil {
		return []buttons.Button{}
	}

	return b
}

// WithComputed presents the record as a map with every computed attribute
// set. Computed values are derived from the record as it was and replace
// attributes of the same name. Without computed attributes the record is
// returned unchanged.
func (e *Entity) WithComputed(record any) (any, error) {
	c, err := e.Computed()
	if err != nil {
		return nil, err
	}

	if len(c) == 0 {
		return record, nil
	}

	m, err := decoder.ToMap(record)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(c))
	for key, fn := range c {
		values[key] = fn(m)
	}

	for key, value := range values {
		m[key] = value
	}

	return m, nil
}

func (e *Entity) present(record any) any {
	if e.Transform != nil {
		record = e.Transform(record)
	}

	presented, err := e.WithComputed(record)
	if err != nil {
		return record
	}

	return presented
}

// Loading prepares repo for a request: records are transformed and get their
// computed attributes, and the request params, less the reserved ones, filter
// the index (no id).
func (e *Entity) Loading(repo repository.Repository, params map[string]string, id string) repository.Repository {
	repo.SetPresenter(e.present)

	if id == "" {
		repo.ApplyFilters(FilterParams(params))
	}

	return repo
}

// RulesFor returns the validator tags for every form field: omitempty by
// default, required for required fields, replaced by the custom rules.
func (e *Entity) RulesFor(id string) (map[string]string, error) {
	fs, err := e.Fields()
	if err != nil {
		return nil, err
	}

	rules := make(map[string]string)
	for _, fieldID := range fs.IDs() {
		rules[fieldID] = "omitempty"
	}

	for _, fieldID := range fs.Required() {
		rules[fieldID] = "required"
	}

	if e.Rules != nil {
		for fieldID, rule := range e.Rules(id) {
			rules[fieldID] = rule
		}
	}

	return rules, nil
}

// ValidateRequest validates data and keeps only the form fields.
func (e *Entity) ValidateRequest(data map[string]any, id string) (map[string]any, error) {
	rules, err := e.RulesFor(id)
	if err != nil {
		return nil, err
	}

	tags := make(map[string]any, len(rules))
	for key, rule := range rules {
		tags[key] = rule
	}

	if failed := validate.ValidateMap(data, tags); len(failed) != 0 {
		verr := &ValidationError{Errors: make(map[string][]string)}
		for key, ferr := range failed {
			verr.Errors[key] = e.messages(key, ferr)
		}
		return nil, verr
	}

	attrs := make(map[string]any)
	for _, fieldID := range e.fields.IDs() {
		if value, ok := data[fieldID]; ok {
			attrs[fieldID] = value
		}
	}

	return attrs, nil
}

func (e *Entity) messages(key string, ferr any) []string {
	label := key
	if f := e.fields.Get(key); f != nil && f.Label() != "" {
		label = f.Label()
	}

	var verrs validator.ValidationErrors
	if err, ok := ferr.(error); ok && errors.As(err, &verrs) {
		var messages []string
		for _, fe := range verrs {
			messages = append(messages, ruleMessage(label, fe.Tag(), fe.Param()))
		}
		return messages
	}

	return []string{fmt.Sprintf("The %s field is invalid.", label)}
}

func ruleMessage(label, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", label)
	case "min", "gte":
		return fmt.Sprintf("The %s must be at least %s.", label, param)
	case "max", "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", label, param)
	default:
		return fmt.Sprintf("The %s field failed on the '%s' rule.", label, tag)
	}
}

// sortedEntities orders entities by resource name.
func sortedEntities(m map[string]*Entity) []*Entity {
	entities := make([]*Entity, 0, len(m))
	for _, e := range m {
		entities = append(entities, e)
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ResourceName() < entities[j].ResourceName()
	})

	return entities
}
