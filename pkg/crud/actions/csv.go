package actions

import (
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/decoder"
	"github.com/materials-commons/mccrud/pkg/obj"
)

type exportField struct {
	key   string
	label string
}

// parseFields reads "owner.name as Owner,name" into keys and header labels.
func parseFields(s string) []exportField {
	var fields []exportField
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		key, label, found := strings.Cut(part, " as ")
		if !found {
			label = key
		}

		fields = append(fields, exportField{key: strings.TrimSpace(key), label: strings.TrimSpace(label)})
	}

	return fields
}

// columnFields exports the props of the entity table columns.
func columnFields(e *crud.Entity) ([]exportField, error) {
	cols, err := e.ColumnList()
	if err != nil {
		return nil, err
	}

	var fields []exportField
	for _, prop := range cols.IDs() {
		if prop != "" {
			fields = append(fields, exportField{key: prop, label: prop})
		}
	}

	return fields, nil
}

// CSVExport streams the records as csv, one flush per record. The fields
// param picks and labels the columns. Without it the column props of the
// entity are exported, or every attribute of the first record when the
// entity has no columns.
func CSVExport(c echo.Context, e *crud.Entity, id string) error {
	repo, err := Scope(c, e, id)
	if err != nil {
		return err
	}

	fields := parseFields(crud.RequestParams(c)["fields"])
	if len(fields) == 0 {
		if fields, err = columnFields(e); err != nil {
			return err
		}
	}

	attach(c, "csv", "text/csv")
	res := c.Response()
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)

	writeRow := func(row []string) error {
		if err := w.Write(row); err != nil {
			return err
		}
		w.Flush()
		res.Flush()
		return w.Error()
	}

	if len(fields) != 0 {
		header := make([]string, len(fields))
		for i, f := range fields {
			header[i] = f.label
		}

		if err := writeRow(header); err != nil {
			return err
		}
	}

	return repo.Each(c.Request().Context(), func(record any) error {
		m, err := decoder.ToMap(record)
		if err != nil {
			return err
		}

		if len(fields) == 0 {
			for _, key := range sortedKeys(m) {
				fields = append(fields, exportField{key: key, label: key})
			}

			header := make([]string, len(fields))
			for i, f := range fields {
				header[i] = f.label
			}

			if err := writeRow(header); err != nil {
				return err
			}
		}

		row := make([]string, len(fields))
		for i, f := range fields {
			value, _ := obj.Dig(m, f.key)
			row[i] = text(value)
		}

		return writeRow(row)
	})
}
