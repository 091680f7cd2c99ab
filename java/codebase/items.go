package codebase

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/completion"
)

type ItemKind int

const (
	ItemVariable ItemKind = iota
	ItemField
	ItemMethod
	ItemClass
	ItemInterface
	ItemPackage
)

type Item struct {
	Label      string
	Kind       ItemKind
	Detail     string
	InsertText string
	Type       java.Signature
	// Snippet is set when InsertText holds placeholders.
	Snippet bool
	// Expected is set when the item has one of the types expected at the
	// caret.
	Expected bool
}

// Complete returns the completion items at the given position of uri.
// Items matching the expected type come first; otherwise the order is
// the order of visibility, nearest first.
func (c *Codebase) Complete(uri string, line, character uint32) ([]Item, error) {
	ctx, err := c.Resolve(uri, line, character)
	if err != nil {
		return nil, err
	}
	if ctx.Token.Kind != completion.TokenName {
		return nil, nil
	}
	doc, _ := c.docs.Get(uri)
	prefix := tokenPrefix(ctx)
	qualifier := qualifierBefore(doc.Content, ctx.Token.Start)

	index := ctx.Index
	var items []Item
	switch {
	case ctx.Location == completion.InImport:
		items = importItems(index, qualifier, prefix)
	case qualifier != "":
		// members of a receiver are not part of the visible symbols
		return nil, nil
	case ctx.Location == completion.ConstructorStart:
		items = constructorItems(index, ctx.Visible, prefix)
	default:
		items = symbolItems(ctx.Visible, prefix)
	}

	markExpected(items, ctx, index)
	return items, nil
}

// tokenPrefix is the part of the caret token typed before the caret.
func tokenPrefix(ctx *completion.Context) string {
	text := ctx.Token.Text
	if n := ctx.Offset - ctx.Token.Start; n >= 0 && n < len(text) {
		return text[:n]
	}
	return text
}

// qualifierBefore returns the dotted name preceding the '.' before start,
// or "" when start does not follow a dot.
func qualifierBefore(content []byte, start int) string {
	if start <= 0 || start > len(content) || content[start-1] != '.' {
		return ""
	}
	i := start - 1
	for i > 0 && (isNameByte(content[i-1]) || content[i-1] == '.') {
		i--
	}
	return strings.Trim(string(content[i:start-1]), ".")
}

func isNameByte(b byte) bool {
	return b == '_' || b == '$' || b >= 0x80 ||
		'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

func hasPrefix(name, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix))
}

// symbolItems turns the visible symbols into items. Constructors and
// initializers cannot be named and are left out.
func symbolItems(visible []completion.Entry, prefix string) []Item {
	var items []Item
	for _, entry := range visible {
		h := entry.Handle
		if h.Kind == java.HandleConstructor || h.Kind == java.HandleInitializer || !hasPrefix(h.Name, prefix) {
			continue
		}
		items = append(items, handleItem(h))
	}
	return items
}

func handleItem(h java.Handle) Item {
	item := Item{Label: h.Name, InsertText: h.Name, Detail: h.Type.Display(), Type: h.Type}
	switch h.Kind {
	case java.HandleLocal, java.HandleParameter:
		item.Kind = ItemVariable
	case java.HandleField:
		item.Kind = ItemField
	case java.HandleMethod:
		item.Kind = ItemMethod
		item.Detail = methodDetail(h)
		item.InsertText, item.Snippet = methodInsert(h)
	case java.HandlePackage:
		item.Kind = ItemPackage
		item.Detail = ""
	default:
		item.Kind = ItemClass
	}
	return item
}

func methodDetail(h java.Handle) string {
	params := make([]string, len(h.Parameters))
	for i, p := range h.Parameters {
		params[i] = p.Display()
	}
	if h.IsVarargs && len(params) > 0 {
		last := len(params) - 1
		params[last] = strings.TrimSuffix(params[last], "[]") + "..."
	}
	ret := h.Type
	if ret == "" {
		ret = java.SigVoid
	}
	return ret.Display() + " " + h.Name + "(" + strings.Join(params, ", ") + ")"
}

func methodInsert(h java.Handle) (string, bool) {
	if len(h.Parameters) == 0 {
		return h.Name + "()", false
	}
	placeholders := make([]string, len(h.Parameters))
	for i, p := range h.Parameters {
		placeholders[i] = "${" + strconv.Itoa(i+1) + ":" + placeholder(p) + "}"
	}
	return h.Name + "(" + strings.Join(placeholders, ", ") + ")", true
}

func placeholder(p java.Signature) string {
	if p.IsArray() {
		return placeholder(p.Elem()) + "[]"
	}
	if name := p.SimpleName(); name != "" {
		return name
	}
	return p.Display()
}

// constructorItems lists the classes that can follow new: the visible
// types first, then every top level class of the index.
func constructorItems(index java.ClassIndex, visible []completion.Entry, prefix string) []Item {
	seen := make(map[string]bool)
	var items []Item
	for _, entry := range visible {
		h := entry.Handle
		if entry.Kind != completion.EntryType || seen[h.Key] || !hasPrefix(h.Name, prefix) {
			continue
		}
		seen[h.Key] = true
		items = append(items, handleItem(h))
	}
	if index == nil {
		return items
	}
	for _, pkg := range index.Packages() {
		for _, c := range index.PackageClasses(pkg) {
			if c.Outer != "" || c.IsLocal || c.IsAnonymous || seen[c.Key()] || !hasPrefix(c.SimpleName, prefix) {
				continue
			}
			seen[c.Key()] = true
			items = append(items, classItem(c))
		}
	}
	return items
}

func classItem(c *java.ClassModel) Item {
	item := handleItem(c.TypeHandle())
	if c.IsInterface() {
		item.Kind = ItemInterface
	}
	return item
}

// importItems lists what can follow qualifier in an import: the next
// package segment of every package below it and its top level classes.
func importItems(index java.ClassIndex, qualifier, prefix string) []Item {
	if index == nil {
		return nil
	}
	var items []Item
	seen := make(map[string]bool)
	for _, pkg := range index.Packages() {
		rest := pkg
		if qualifier != "" {
			if !strings.HasPrefix(pkg, qualifier+".") {
				continue
			}
			rest = strings.TrimPrefix(pkg, qualifier+".")
		}
		segment, _, _ := strings.Cut(rest, ".")
		if segment == "" || seen[segment] || !hasPrefix(segment, prefix) {
			continue
		}
		seen[segment] = true
		items = append(items, Item{Label: segment, Kind: ItemPackage, InsertText: segment})
	}
	if qualifier == "" {
		return items
	}
	for _, c := range index.PackageClasses(qualifier) {
		if c.Outer != "" || c.IsLocal || c.IsAnonymous || !hasPrefix(c.SimpleName, prefix) {
			continue
		}
		items = append(items, classItem(c))
	}
	return items
}

// markExpected flags the items whose type is assignable to an expected
// type and moves them to the front.
func markExpected(items []Item, ctx *completion.Context, index java.ClassIndex) {
	if len(ctx.Expected) == 0 {
		return
	}
	for i := range items {
		switch items[i].Kind {
		case ItemVariable, ItemField, ItemMethod:
		default:
			continue
		}
		for _, want := range ctx.Expected {
			if java.Assignable(index, items[i].Type, want) {
				items[i].Expected = true
				break
			}
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Expected && !items[j].Expected
	})
}
