// Package buttons describes the extra row buttons and header buttons of the
// crud table.
package buttons

import (
	"encoding/json"

	"github.com/materials-commons/mccrud/pkg/crud/jsfunc"
	"github.com/materials-commons/mccrud/pkg/crud/naming"
)

// Button is anything that can be rendered in the extraButtons or headerButtons
// lists of a schema.
type Button interface {
	ToMap() map[string]any
}

// TableButton runs a javascript function when clicked. AtClick receives
// (row, ctx), Show receives the row and Disabled the current selection.
type TableButton struct {
	Text     string
	AtClick  *jsfunc.Func
	Show     *jsfunc.Func
	Disabled *jsfunc.Func
	attrs    map[string]any
}

func NewTableButton(text string, atClick *jsfunc.Func) *TableButton {
	return &TableButton{Text: text, AtClick: atClick, attrs: make(map[string]any)}
}

func (b *TableButton) SetShow(fn *jsfunc.Func) *TableButton {
	b.Show = fn
	return b
}

func (b *TableButton) SetDisabled(fn *jsfunc.Func) *TableButton {
	b.Disabled = fn
	return b
}

// Attr sets an element button attribute such as size or a custom one.
func (b *TableButton) Attr(key string, value any) *TableButton {
	b.attrs[key] = value
	return b
}

func (b *TableButton) Attrs() map[string]any {
	return b.attrs
}

// Type is one of primary, success, warning, danger, info or text.
func (b *TableButton) Type(typ string) *TableButton { return b.Attr("type", typ) }
func (b *TableButton) Plain() *TableButton          { return b.Attr("plain", true) }
func (b *TableButton) Round() *TableButton          { return b.Attr("round", true) }
func (b *TableButton) Circle() *TableButton         { return b.Attr("circle", true) }
func (b *TableButton) Icon(icon string) *TableButton {
	return b.Attr("icon", icon)
}

func (b *TableButton) ToMap() map[string]any {
	m := make(map[string]any, len(b.attrs)+4)
	putFunc(m, "atClick", b.AtClick)
	putFunc(m, "show", b.Show)
	putFunc(m, "disabled", b.Disabled)
	if b.Text != "" {
		m["text"] = b.Text
	}

	for key, value := range b.attrs {
		if _, ok := m[key]; ok {
			continue
		}
		if value == nil || value == "" {
			continue
		}
		m[key] = value
	}

	return m
}

func putFunc(m map[string]any, key string, fn *jsfunc.Func) {
	if fn != nil {
		m[key] = fn
	}
}

func (b *TableButton) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToMap())
}

// ActionButton calls a custom action registered on the entity. Without an
// explicit uri the frontend posts to {resource}/{id}/{action}.
type ActionButton struct {
	*TableButton
	Action string
}

func NewActionButton(action string) *ActionButton {
	b := &ActionButton{
		TableButton: NewTableButton(naming.Title(action), nil),
		Action:      action,
	}
	b.Method("POST").Refresh(true)
	return b
}

func (b *ActionButton) SetText(text string) *ActionButton {
	b.Text = text
	return b
}

func (b *ActionButton) URI(uri string) *ActionButton {
	b.Attr("uri", uri)
	return b
}

func (b *ActionButton) Method(method string) *ActionButton {
	b.Attr("method", method)
	return b
}

// Refresh reloads the table once the action responded.
func (b *ActionButton) Refresh(refresh bool) *ActionButton {
	b.Attr("refresh", refresh)
	return b
}

// External opens the action uri in a new window.
func (b *ActionButton) External() *ActionButton {
	b.Attr("external", true)
	return b
}

func (b *ActionButton) Confirm(message string) *ActionButton {
	b.Attr("confirm", message)
	return b
}

// Search appends the search form params to the request.
func (b *ActionButton) Search() *ActionButton {
	b.Attr("search", true)
	return b
}

// Selection appends the row or the table selection to the request.
func (b *ActionButton) Selection() *ActionButton {
	b.Attr("selection", true)
	return b
}

func (b *ActionButton) Params(params map[string]any) *ActionButton {
	b.Attr("params", params)
	return b
}

func (b *ActionButton) ToMap() map[string]any {
	m := b.TableButton.ToMap()
	m["action"] = b.Action
	m["loading"] = false
	return m
}

func (b *ActionButton) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToMap())
}
