package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/completion"
)

// ContextJSONEncoder writes a completion context. Absent values are
// written as null rather than left out.
type ContextJSONEncoder struct {
	w io.Writer
}

func NewContextJSONEncoder(w io.Writer) *ContextJSONEncoder {
	return &ContextJSONEncoder{w: w}
}

func (e *ContextJSONEncoder) Encode(ctx *completion.Context) error {
	text, err := e.MarshalText(ctx)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ContextJSONEncoder) MarshalText(ctx *completion.Context) ([]byte, error) {
	return json.MarshalIndent(contextToJSON(ctx), "", "  ")
}

type jsonContext struct {
	Offset       int           `json:"offset"`
	Token        jsonToken     `json:"token"`
	Location     string        `json:"location"`
	Expected     []string      `json:"expected"`
	Enclosing    *jsonHandle   `json:"enclosing,omitempty"`
	Visible      []jsonVisible `json:"visible,omitempty"`
	VisibleError *string       `json:"visibleError,omitempty"`
}

type jsonToken struct {
	Kind  string  `json:"kind"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Text  *string `json:"text"`
}

type jsonHandle struct {
	Name       string     `json:"name,omitempty"`
	Kind       string     `json:"kind"`
	Key        string     `json:"key"`
	Occurrence int        `json:"occurrence"`
	Container  string     `json:"container,omitempty"`
	Type       string     `json:"type,omitempty"`
	Origin     jsonOrigin `json:"origin"`
}

type jsonVisible struct {
	Kind   string     `json:"kind"`
	Handle jsonHandle `json:"handle"`
}

func handleToJSON(h java.Handle) jsonHandle {
	return jsonHandle{
		Name:       h.Name,
		Kind:       h.Kind.String(),
		Key:        h.Key,
		Occurrence: h.Occurrence,
		Container:  h.Container,
		Type:       string(h.Type),
		Origin:     originToJSON(h.Origin),
	}
}

func contextToJSON(ctx *completion.Context) jsonContext {
	jc := jsonContext{
		Offset: ctx.Offset,
		Token: jsonToken{
			Kind:  ctx.Token.Kind.String(),
			Start: ctx.Token.Start,
			End:   ctx.Token.End,
			Text:  ctx.TokenText(),
		},
		Location: ctx.Location.String(),
	}
	for _, sig := range ctx.Expected {
		jc.Expected = append(jc.Expected, string(sig))
	}
	if ctx.Enclosing != nil {
		h := handleToJSON(*ctx.Enclosing)
		jc.Enclosing = &h
	}
	if ctx.VisibleErr != nil {
		msg := ctx.VisibleErr.Error()
		jc.VisibleError = &msg
	}
	if ctx.Visible != nil {
		jc.Visible = make([]jsonVisible, len(ctx.Visible))
		for i, entry := range ctx.Visible {
			jc.Visible[i] = jsonVisible{Kind: entry.Kind.String(), Handle: handleToJSON(entry.Handle)}
		}
	}
	return jc
}

// ContextTextEncoder writes a completion context as "key: value" lines,
// one line per visible symbol.
type ContextTextEncoder struct {
	w io.Writer
}

func NewContextTextEncoder(w io.Writer) *ContextTextEncoder {
	return &ContextTextEncoder{w: w}
}

func (e *ContextTextEncoder) Encode(ctx *completion.Context) error {
	text, err := e.MarshalText(ctx)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ContextTextEncoder) MarshalText(ctx *completion.Context) ([]byte, error) {
	var sb strings.Builder

	text := "none"
	if t := ctx.TokenText(); t != nil {
		text = fmt.Sprintf("%q", *t)
	}
	fmt.Fprintf(&sb, "token: %s [%d, %d] %s\n", ctx.Token.Kind, ctx.Token.Start, ctx.Token.End, text)
	fmt.Fprintf(&sb, "location: %s\n", ctx.Location)

	expected := "none"
	if len(ctx.Expected) > 0 {
		expected = strings.Join(signatures(ctx.Expected), ", ")
	}
	fmt.Fprintf(&sb, "expected: %s\n", expected)

	if ctx.Enclosing != nil {
		fmt.Fprintf(&sb, "enclosing: %s %s\n", ctx.Enclosing.Kind, ctx.Enclosing)
	}
	if ctx.VisibleErr != nil {
		fmt.Fprintf(&sb, "visible: %s\n", ctx.VisibleErr)
	}
	for _, entry := range ctx.Visible {
		h := entry.Handle
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", entry.Kind, h.Name, column([]string{h.Type.Display()}), h.Origin)
	}
	return []byte(sb.String()), nil
}
