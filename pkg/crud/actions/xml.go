package actions

import (
	"encoding/xml"
	"net/http"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/crud/naming"
	"github.com/materials-commons/mccrud/pkg/decoder"
)

// XMLExport streams the records as xml: the root element is the (plural)
// resource name and every record a singular element.
func XMLExport(c echo.Context, e *crud.Entity, id string) error {
	repo, err := Scope(c, e, id)
	if err != nil {
		return err
	}

	plural := strings.ReplaceAll(e.ResourceName(), "-", "_")
	singular := naming.Singular(plural)

	attach(c, "xml", echo.MIMEApplicationXML)
	res := c.Response()
	res.WriteHeader(http.StatusOK)

	enc := xml.NewEncoder(res)
	flush := func() error {
		if err := enc.Flush(); err != nil {
			return err
		}
		res.Flush()
		return nil
	}

	if err := enc.EncodeToken(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}); err != nil {
		return err
	}

	root := xml.StartElement{Name: xml.Name{Local: elementName(plural)}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	err = repo.Each(c.Request().Context(), func(record any) error {
		m, err := decoder.ToMap(record)
		if err != nil {
			return err
		}

		if err := writeElement(enc, singular, m); err != nil {
			return err
		}

		return flush()
	})
	if err != nil {
		return err
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}

	return flush()
}

// writeElement writes maps as nested elements (sorted by key) and lists as
// a plural wrapper around singular elements.
func writeElement(enc *xml.Encoder, name string, value any) error {
	start := xml.StartElement{Name: xml.Name{Local: elementName(name)}}

	switch v := value.(type) {
	case []any:
		start.Name.Local = elementName(naming.Plural(name))
		if err := enc.EncodeToken(start); err != nil {
			return err
		}

		child := naming.Singular(name)
		for _, item := range v {
			if err := writeElement(enc, child, item); err != nil {
				return err
			}
		}

	case map[string]any:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}

		for _, key := range sortedKeys(v) {
			if err := writeElement(enc, key, v[key]); err != nil {
				return err
			}
		}

	default:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}

		if s := text(v); s != "" {
			if err := enc.EncodeToken(xml.CharData(s)); err != nil {
				return err
			}
		}
	}

	return enc.EncodeToken(start.End())
}

// elementName replaces the characters not allowed in an xml name.
func elementName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r) || r == '-' || r == '.':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	if b.Len() == 0 {
		return "item"
	}

	return b.String()
}
