package changelog

import (
	"strconv"
	"strings"
	"time"
)

// DefaultDateLayout formats release timestamps in rendered output.
const DefaultDateLayout = "2006-01-02"

// Node is one element of a template. A template is an explicit tree of
// nodes rather than parsed text, so layouts are assembled in code and
// validated by the compiler.
type Node interface {
	render(sb *strings.Builder, sc *scope, t *Template)
}

// Template is a renderable layout: an ordered node list plus rendering
// settings. Rendering walks the nodes once, top to bottom.
type Template struct {
	Nodes      []Node
	DateLayout string
}

// Data is the immutable snapshot a template renders: one release and the
// link entries extracted from its commits.
type Data struct {
	Release Release
	Links   []LinkEntry
}

// Render evaluates the template against one snapshot. Output is a pure
// function of the template and the snapshot: rendering the same input
// twice produces byte-identical text. Paths that do not resolve emit
// nothing rather than failing the render.
func (t *Template) Render(data Data) string {
	var sb strings.Builder
	sc := &scope{name: "release", value: data.Release}
	sc = sc.bind("links", data.Links)
	for _, n := range t.Nodes {
		n.render(&sb, sc, t)
	}
	return sb.String()
}

// Text emits a literal fragment.
type Text string

func (n Text) render(sb *strings.Builder, _ *scope, _ *Template) {
	sb.WriteString(string(n))
}

// Var emits the value at a dotted path, passed through its filter chain.
type Var struct {
	Path    string
	Filters []Filter
}

func (n Var) render(sb *strings.Builder, sc *scope, t *Template) {
	val, ok := resolve(sc, n.Path)
	if !ok {
		return
	}
	s, ok := t.format(val)
	if !ok {
		return
	}
	for _, f := range n.Filters {
		s = f(s)
	}
	sb.WriteString(s)
}

// Loop renders its body once per element of the sequence at Path. The
// element is bound to Bind and its 1-based position to "index".
type Loop struct {
	Path string
	Bind string
	Body []Node
}

func (n Loop) render(sb *strings.Builder, sc *scope, t *Template) {
	val, ok := resolve(sc, n.Path)
	if !ok {
		return
	}
	for i, elem := range elements(val) {
		inner := sc.bind(n.Bind, elem).bind("index", i+1)
		for _, b := range n.Body {
			b.render(sb, inner, t)
		}
	}
}

// Cond renders Then when the value at Path is present and truthy, Else
// otherwise. A path that does not resolve counts as false.
type Cond struct {
	Path string
	Then []Node
	Else []Node
}

func (n Cond) render(sb *strings.Builder, sc *scope, t *Template) {
	body := n.Else
	if val, ok := resolve(sc, n.Path); ok && truthy(val) {
		body = n.Then
	}
	for _, b := range body {
		b.render(sb, sc, t)
	}
}

// scope is a linked list of name bindings. Loops push bindings on top;
// lookup returns the nearest one.
type scope struct {
	name   string
	value  any
	parent *scope
}

func (s *scope) bind(name string, value any) *scope {
	return &scope{name: name, value: value, parent: s}
}

func (s *scope) lookup(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.value, true
		}
	}
	return nil, false
}

// resolve walks a dotted path: the first segment names a scope binding,
// the rest select fields of the data model.
func resolve(sc *scope, path string) (any, bool) {
	parts := strings.Split(path, ".")
	val, ok := sc.lookup(parts[0])
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		val, ok = field(val, part)
		if !ok {
			return nil, false
		}
	}
	return val, true
}

// field selects one named field from a data model value.
func field(val any, name string) (any, bool) {
	switch v := val.(type) {
	case Release:
		switch name {
		case "version":
			return v.Version, true
		case "previous_version":
			return v.PreviousVersion, true
		case "timestamp":
			return v.Time, true
		case "groups":
			return v.Groups, true
		}
	case Group:
		switch name {
		case "tag":
			return v.Tag, true
		case "title":
			return v.Title, true
		case "commits":
			return v.Commits, true
		}
	case Commit:
		switch name {
		case "hash":
			return v.Hash, true
		case "abbrev_hash":
			return abbrevHash(v.Hash), true
		case "type":
			return v.Type, true
		case "scope":
			return v.Scope, true
		case "subject":
			return v.Subject, true
		case "description":
			return v.Description, true
		case "breaking":
			return v.Breaking, true
		}
	case LinkEntry:
		switch name {
		case "number":
			return v.Number, true
		case "url":
			return v.URL, true
		}
	}
	return nil, false
}

func elements(val any) []any {
	switch v := val.(type) {
	case []Group:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out
	case []Commit:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out
	case []LinkEntry:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out
	case []any:
		return v
	}
	return nil
}

// format renders a resolved value as text. Values without a sensible text
// form report false and the fragment is skipped.
func (t *Template) format(val any) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case bool:
		return strconv.FormatBool(v), true
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		layout := t.DateLayout
		if layout == "" {
			layout = DefaultDateLayout
		}
		return v.Format(layout), true
	}
	return "", false
}

func truthy(val any) bool {
	switch v := val.(type) {
	case string:
		return v != ""
	case int:
		return v != 0
	case bool:
		return v
	case time.Time:
		return !v.IsZero()
	case []Group:
		return len(v) > 0
	case []Commit:
		return len(v) > 0
	case []LinkEntry:
		return len(v) > 0
	case []any:
		return len(v) > 0
	}
	return val != nil
}

func abbrevHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
