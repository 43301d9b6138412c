package browser

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/dpotapov/browser/htmltree"
)

// FormField is one (name, value) pair collected from a form for
// submission (spec.md §4.G).
type FormField struct {
	Name  string
	Value string
}

// FormIn wraps f as an actionable Form scoped to doc. Document.Forms
// returns bare htmltree.Form values; wrap one with FormIn before calling
// GetField/SetField/Submit.
func FormIn(doc *Document, f htmltree.Form) *BoundForm {
	return &BoundForm{Form: f, doc: doc}
}

// BoundForm is an htmltree.Form together with the Document it belongs
// to, letting it resolve its action URL and accept-charset and submit
// itself through the Document's HttpClient.
type BoundForm struct {
	htmltree.Form
	doc *Document
}

// Action resolves the form's action attribute per spec.md §4.G: an
// empty attribute resolves to the page URL (HTML5 explicitly does not
// fall back to the base URL here); a non-empty one is joined against the
// base URI.
func (f *BoundForm) Action() string {
	action := f.ActionAttr()
	if action == "" {
		return f.doc.URL
	}
	resolved, err := resolveURL(f.doc.BaseURI(), action)
	if err != nil {
		return action
	}
	return resolved
}

// AcceptCharset resolves the accept-charset attribute through the
// encoding registry, falling back to the document charset, then utf-8.
func (f *BoundForm) AcceptCharset() string {
	if a := f.AcceptCharsetAttr(); a != "" {
		if _, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(a))); err == nil {
			return strings.ToLower(strings.TrimSpace(a))
		}
	}
	if f.doc.Charset != "" {
		return f.doc.Charset
	}
	return "utf-8"
}

// GetField implements spec.md §4.G's get_field semantics.
func (f *BoundForm) GetField(name string) (string, error) {
	inputs := fieldsNamed(f.Form, name)

	switch {
	case len(inputs) == 0:
		return "", &InputNotFoundError{Name: name}
	case len(inputs) == 1:
		if inputs[0].El.Tag() == "select" {
			v, err := htmltree.AsSelect(inputs[0].El).Value()
			if err != nil {
				return "", &UnsupportedFormError{Reason: "multiple options of '" + name + "' are selected"}
			}
			return v, nil
		}
		return inputs[0].Value(), nil
	default:
		if !allRadio(inputs) {
			return "", &UnsupportedFormError{Reason: "multiple elements named '" + name + "' and they are not all radio buttons"}
		}
		var checked []htmltree.FieldInput
		for _, in := range inputs {
			if in.Checked() {
				checked = append(checked, in)
			}
		}
		switch len(checked) {
		case 0:
			return "", nil
		case 1:
			return checked[0].Value(), nil
		default:
			return "", &UnsupportedFormError{Reason: "multiple radio buttons named '" + name + "' are checked"}
		}
	}
}

// SetField implements spec.md §4.G's set_field semantics.
func (f *BoundForm) SetField(name, value string) error {
	inputs := fieldsNamed(f.Form, name)

	switch {
	case len(inputs) == 0:
		return &InputNotFoundError{Name: name}
	case len(inputs) == 1:
		return setSingleField(inputs[0], value)
	default:
		if !allRadio(inputs) {
			return &UnsupportedFormError{Reason: "multiple elements named '" + name + "' and they are not all radio buttons"}
		}
		var target *htmltree.Input
		for _, in := range inputs {
			i := htmltree.AsInput(in.El)
			if i.AttrOr("value", "") == value {
				t := i
				target = &t
				break
			}
		}
		if target == nil {
			return &UnsupportedFormError{Reason: "no radio button with value '" + value + "' exists"}
		}
		for _, in := range inputs {
			_ = htmltree.AsInput(in.El).SetChecked(false)
		}
		return target.SetChecked(true)
	}
}

func setSingleField(in htmltree.FieldInput, value string) error {
	switch in.El.Tag() {
	case "select":
		if err := htmltree.AsSelect(in.El).SetValue(value); err != nil {
			return &UnsupportedFormError{Reason: "no option with value '" + value + "' exists"}
		}
		return nil
	case "textarea":
		htmltree.AsTextarea(in.El).SetValue(value)
		return nil
	default:
		htmltree.AsInput(in.El).SetValue(value)
		return nil
	}
}

func fieldsNamed(f htmltree.Form, name string) []htmltree.FieldInput {
	var out []htmltree.FieldInput
	for _, in := range f.Elements() {
		if in.Name() == name {
			out = append(out, in)
		}
	}
	return out
}

func allRadio(inputs []htmltree.FieldInput) bool {
	for _, in := range inputs {
		if in.Type() != "radio" {
			return false
		}
	}
	return true
}

// FormData collects the ordered (name, value) pairs this form would
// submit, per spec.md §4.G: skip disabled and unnamed elements;
// radio/checkbox emit a pair only if checked; select emits one pair per
// selected option; everything else emits its value as-is.
func (f *BoundForm) FormData() []FormField {
	var out []FormField
	for _, in := range f.Elements() {
		if !in.Enabled() || in.Name() == "" {
			continue
		}

		switch in.Type() {
		case "radio", "checkbox":
			if in.Checked() {
				out = append(out, FormField{Name: in.Name(), Value: in.Value()})
			}
		case "select":
			sel := htmltree.AsSelect(in.El)
			for _, o := range sel.Options() {
				if o.Selected() {
					out = append(out, FormField{Name: in.Name(), Value: o.Value()})
				}
			}
		default:
			out = append(out, FormField{Name: in.Name(), Value: in.Value()})
		}
	}
	return out
}

// Encode percent-encodes FormData under AcceptCharset and joins it as
// "k=v&k=v" for use as either a GET query string or a POST body.
func (f *BoundForm) Encode() (string, error) {
	enc, err := htmlindex.Get(f.AcceptCharset())
	if err != nil {
		enc = encoding.Nop
	}

	var parts []string
	for _, field := range f.FormData() {
		name, err := enc.NewEncoder().String(field.Name)
		if err != nil {
			name = field.Name
		}
		val, err := enc.NewEncoder().String(field.Value)
		if err != nil {
			val = field.Value
		}
		parts = append(parts, url.QueryEscape(name)+"="+url.QueryEscape(val))
	}
	return strings.Join(parts, "&"), nil
}

// Submit sends the form through its Document's HttpClient: GET appends
// the encoded data as a query string; POST sends it as the request body
// with Content-Type application/x-www-form-urlencoded.
func (f *BoundForm) Submit(ctx context.Context) (*Document, error) {
	encoded, err := f.Encode()
	if err != nil {
		return nil, err
	}

	action := f.Action()

	if f.Method() == "POST" {
		headers := map[string]string{
			"Content-Type": f.Enctype(),
			"Referer":      stripFragment(f.doc.URL),
		}
		return doRequest(ctx, f.doc.client, action, headers, []byte(encoded), f.doc.logger)
	}

	target := action
	if u, err := url.Parse(action); err == nil {
		u.RawQuery = encoded
		target = u.String()
	}
	headers := map[string]string{"Referer": stripFragment(f.doc.URL)}
	return doOpen(ctx, f.doc.client, target, headers, f.doc.logger)
}
