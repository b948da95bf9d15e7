package crud

import (
	"encoding/json"
	"strings"

	"github.com/materials-commons/mccrud/pkg/crud/buttons"
	"github.com/materials-commons/mccrud/pkg/crud/columns"
	"github.com/materials-commons/mccrud/pkg/crud/fields"
)

const paginationLayout = "total, sizes, prev, pager, next, jumper"

// Schema is what the frontend table and form renderers are built from.
type Schema struct {
	ID               string              `json:"id"`
	Class            string              `json:"class"`
	URL              string              `json:"url"`
	Columns          *columns.Collection `json:"columns"`
	Form             *fields.Collection  `json:"form"`
	SearchForm       *fields.Collection  `json:"searchForm"`
	FormAttrs        map[string]any      `json:"formAttrs"`
	TableAttrs       map[string]any      `json:"tableAttrs"`
	ExtraButtons     []buttons.Button    `json:"extraButtons"`
	HeaderButtons    []buttons.Button    `json:"headerButtons"`
	Single           bool                `json:"single"`
	HasNew           bool                `json:"hasNew"`
	HasView          bool                `json:"hasView"`
	HasEdit          bool                `json:"hasEdit"`
	HasDelete        bool                `json:"hasDelete"`
	HasPagination    bool                `json:"hasPagination"`
	PaginationSize   int                 `json:"paginationSize"`
	PaginationSizes  []int               `json:"paginationSizes"`
	PaginationLayout string              `json:"paginationLayout"`
}

const reviver = `function (key, val) {` +
	`  if (val && (typeof val === 'string') && val.indexOf('function') === 0) {` +
	`    return new Function('return ' + val)()` +
	`  }` +
	`  return val` +
	`}`

// JSONWithParse renders v as a javascript expression that parses its JSON
// and revives every string starting with "function" into a function.
func JSONWithParse(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	// The JSON is embedded in a single quoted javascript string.
	s := strings.ReplaceAll(string(b), `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\u0027`)

	return "JSON.parse('" + s + "', " + reviver + ")", nil
}
