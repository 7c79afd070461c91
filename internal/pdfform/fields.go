// Package pdfform reads and fills AcroForm fields of PDF documents and
// renders stored form responses as printable PDF summaries.
package pdfform

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Field types.
const (
	TypeText      = "text"
	TypeCheckbox  = "checkbox"
	TypeRadio     = "radio"
	TypeChoice    = "choice"
	TypeButton    = "button"
	TypeSignature = "signature"
)

// Field flag bits (PDF 32000-1 §12.7.4).
const (
	flagRadio      = 1 << 15
	flagPushbutton = 1 << 16
	flagCombo      = 1 << 17
)

const maxFieldDepth = 32

// ErrNoForm is returned by Fields for PDFs without an AcroForm.
var ErrNoForm = errors.New("pdf has no form fields")

// Field is one terminal AcroForm field.
type Field struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Value   string   `json:"value"`
	Options []string `json:"options,omitempty"`
}

func config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Fields lists the terminal fields of the document's AcroForm in document
// order. Names are fully qualified ("parent.child").
func Fields(r io.ReadSeeker) ([]Field, error) {
	ctx, err := api.ReadValidateAndOptimize(r, config())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	acro, err := acroForm(ctx)
	if err != nil {
		return nil, err
	}
	if acro == nil {
		return nil, ErrNoForm
	}

	var fields []Field
	err = walkFields(ctx, acro, func(n *fieldNode) error {
		fields = append(fields, Field{
			Name:    n.name,
			Type:    n.kind(),
			Value:   valueString(ctx, n.dict["V"]),
			Options: n.options(ctx),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// Fill sets field values and writes the updated document to w. Keys match
// fully qualified names first, then the last name segment. Checkboxes take
// a truthy value ("true", "yes", "on", "1", "x") or an appearance state name.
// A document without an AcroForm is copied to w unchanged. Fill returns the
// names of the fields it set.
func Fill(r io.ReadSeeker, values map[string]string, w io.Writer) ([]string, error) {
	ctx, err := api.ReadValidateAndOptimize(r, config())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	acro, err := acroForm(ctx)
	if err != nil {
		return nil, err
	}
	if acro == nil {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if _, err := io.Copy(w, r); err != nil {
			return nil, fmt.Errorf("failed to copy PDF: %w", err)
		}
		return nil, nil
	}

	var filled []string
	err = walkFields(ctx, acro, func(n *fieldNode) error {
		value, ok := lookupValue(values, n.name)
		if !ok {
			return nil
		}
		if n.set(ctx, value) {
			filled = append(filled, n.name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	acro["NeedAppearances"] = types.Boolean(true)
	if err := api.WriteContext(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return filled, nil
}

func lookupValue(values map[string]string, name string) (string, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		v, ok := values[name[i+1:]]
		return v, ok
	}
	return "", false
}

// acroForm returns the catalog's AcroForm dictionary, or nil.
func acroForm(ctx *model.Context) (types.Dict, error) {
	catalog, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	obj, ok := catalog.Find("AcroForm")
	if !ok || obj == nil {
		return nil, nil
	}
	acro, err := ctx.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read AcroForm: %w", err)
	}
	if acro == nil {
		return nil, nil
	}
	if _, ok := acro.Find("Fields"); !ok {
		return nil, nil
	}
	return acro, nil
}

type fieldNode struct {
	dict    types.Dict
	name    string
	ft      string
	ff      int
	widgets []types.Dict
}

type inherited struct {
	name string
	ft   string
	ff   int
}

func walkFields(ctx *model.Context, acro types.Dict, visit func(*fieldNode) error) error {
	roots, err := ctx.DereferenceArray(acro["Fields"])
	if err != nil {
		return fmt.Errorf("failed to read form fields: %w", err)
	}
	for _, obj := range roots {
		if err := walkField(ctx, obj, inherited{}, 0, visit); err != nil {
			return err
		}
	}
	return nil
}

func walkField(ctx *model.Context, obj types.Object, parent inherited, depth int, visit func(*fieldNode) error) error {
	if depth > maxFieldDepth {
		return fmt.Errorf("form field tree deeper than %d levels", maxFieldDepth)
	}
	d, err := ctx.DereferenceDict(obj)
	if err != nil {
		return fmt.Errorf("failed to read form field: %w", err)
	}
	if d == nil {
		return nil
	}

	inh := parent
	if t, ok := d.Find("T"); ok {
		if s := valueString(ctx, t); s != "" {
			if inh.name == "" {
				inh.name = s
			} else {
				inh.name += "." + s
			}
		}
	}
	if ft, ok := nameEntry(ctx, d, "FT"); ok {
		inh.ft = ft
	}
	if ff, ok := intEntry(ctx, d, "Ff"); ok {
		inh.ff = ff
	}

	var kids types.Array
	if k, ok := d.Find("Kids"); ok {
		if kids, err = ctx.DereferenceArray(k); err != nil {
			return fmt.Errorf("failed to read kids of %q: %w", inh.name, err)
		}
	}

	// Kids with a T entry are child fields; the rest are widgets.
	var widgets []types.Dict
	childFields := false
	for _, k := range kids {
		kd, err := ctx.DereferenceDict(k)
		if err != nil || kd == nil {
			continue
		}
		if _, ok := kd.Find("T"); ok {
			childFields = true
			if err := walkField(ctx, k, inh, depth+1, visit); err != nil {
				return err
			}
			continue
		}
		widgets = append(widgets, kd)
	}
	if childFields && len(widgets) == 0 {
		return nil
	}
	if len(kids) == 0 {
		widgets = []types.Dict{d}
	}
	if inh.name == "" {
		return nil
	}
	return visit(&fieldNode{dict: d, name: inh.name, ft: inh.ft, ff: inh.ff, widgets: widgets})
}

func (n *fieldNode) kind() string {
	switch n.ft {
	case "Tx":
		return TypeText
	case "Ch":
		return TypeChoice
	case "Sig":
		return TypeSignature
	case "Btn":
		switch {
		case n.ff&flagPushbutton != 0:
			return TypeButton
		case n.ff&flagRadio != 0:
			return TypeRadio
		default:
			return TypeCheckbox
		}
	}
	return TypeText
}

// options lists choice options, or the on states of checkboxes and radios.
func (n *fieldNode) options(ctx *model.Context) []string {
	switch n.kind() {
	case TypeChoice:
		opt, ok := n.dict.Find("Opt")
		if !ok {
			return nil
		}
		arr, err := ctx.DereferenceArray(opt)
		if err != nil {
			return nil
		}
		var out []string
		for _, o := range arr {
			// An option is a text string or an [export, display] pair.
			if pair, err := ctx.DereferenceArray(o); err == nil && len(pair) == 2 {
				o = pair[0]
			}
			if s := valueString(ctx, o); s != "" {
				out = append(out, s)
			}
		}
		return out
	case TypeCheckbox, TypeRadio:
		return n.onStates(ctx)
	}
	return nil
}

func (n *fieldNode) onStates(ctx *model.Context) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range n.widgets {
		for _, s := range appearanceStates(ctx, w) {
			if s != "Off" && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// set assigns value and reports whether the field changed.
func (n *fieldNode) set(ctx *model.Context, value string) bool {
	switch n.kind() {
	case TypeText, TypeChoice:
		n.dict["V"] = encodeText(value)
		for _, w := range n.widgets {
			// Viewers regenerate appearances because NeedAppearances is set.
			delete(w, "AP")
		}
		return true
	case TypeCheckbox:
		state := "Off"
		states := n.onStates(ctx)
		switch {
		case contains(states, value):
			state = value
		case truthy(value):
			state = "Yes"
			if len(states) > 0 {
				state = states[0]
			}
		}
		n.setState(ctx, state)
		return true
	case TypeRadio:
		if value != "Off" && !contains(n.onStates(ctx), value) {
			return false
		}
		n.setState(ctx, value)
		return true
	}
	return false
}

func (n *fieldNode) setState(ctx *model.Context, state string) {
	n.dict["V"] = types.Name(state)
	for _, w := range n.widgets {
		as := "Off"
		if contains(appearanceStates(ctx, w), state) {
			as = state
		}
		w["AS"] = types.Name(as)
	}
}

// appearanceStates returns the state names of a widget's normal appearance.
func appearanceStates(ctx *model.Context, widget types.Dict) []string {
	ap, ok := widget.Find("AP")
	if !ok {
		return nil
	}
	apDict, err := ctx.DereferenceDict(ap)
	if err != nil || apDict == nil {
		return nil
	}
	normal, ok := apDict.Find("N")
	if !ok {
		return nil
	}
	obj, err := ctx.Dereference(normal)
	if err != nil {
		return nil
	}
	states, ok := obj.(types.Dict)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(states))
	for k := range states {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func nameEntry(ctx *model.Context, d types.Dict, key string) (string, bool) {
	o, ok := d.Find(key)
	if !ok {
		return "", false
	}
	o, err := ctx.Dereference(o)
	if err != nil {
		return "", false
	}
	n, ok := o.(types.Name)
	return string(n), ok
}

func intEntry(ctx *model.Context, d types.Dict, key string) (int, bool) {
	o, ok := d.Find(key)
	if !ok {
		return 0, false
	}
	o, err := ctx.Dereference(o)
	if err != nil {
		return 0, false
	}
	i, ok := o.(types.Integer)
	return int(i), ok
}

// valueString renders a field value or name object as text.
func valueString(ctx *model.Context, o types.Object) string {
	if o == nil {
		return ""
	}
	o, err := ctx.Dereference(o)
	if err != nil || o == nil {
		return ""
	}
	switch v := o.(type) {
	case types.StringLiteral:
		return decodeText(unescapeLiteral(string(v)))
	case types.HexLiteral:
		return decodeText(decodeHex(string(v)))
	case types.Name:
		return string(v)
	case types.Array:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if s := valueString(ctx, e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1", "x", "checked":
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
