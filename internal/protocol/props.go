package protocol

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// Prop shapes as the model sends them. Node-bearing fields stay untyped
// until the validator walks them.

type cardProps struct {
	Children any `mapstructure:"children"`
}

type headerProps struct {
	Title    string `mapstructure:"title"`
	Subtitle string `mapstructure:"subtitle"`
}

type inlineHeaderProps struct {
	Heading     string `mapstructure:"heading"`
	Description string `mapstructure:"description"`
}

type textContentProps struct {
	TextMarkdown string `mapstructure:"textMarkdown"`
}

type calloutProps struct {
	Variant     string `mapstructure:"variant"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

type miniCardProps struct {
	LHS any `mapstructure:"lhs"`
	RHS any `mapstructure:"rhs"`
}

type dataTileProps struct {
	Amount      string `mapstructure:"amount"`
	Description string `mapstructure:"description"`
	Child       any    `mapstructure:"child"`
}

type listProps struct {
	Variant string `mapstructure:"variant"`
	Items   []any  `mapstructure:"items"`
}

type stepsProps struct {
	Children any   `mapstructure:"children"`
	Items    []any `mapstructure:"items"`
}

type stepsItemProps struct {
	Title   string `mapstructure:"title"`
	Details any    `mapstructure:"details"`
}

type tableProps struct {
	TableHeader any `mapstructure:"tableHeader"`
	TableBody   any `mapstructure:"tableBody"`
}

type tagProps struct {
	Text    string `mapstructure:"text"`
	Variant string `mapstructure:"variant"`
}

type buttonGroupProps struct {
	Variant  string `mapstructure:"variant"`
	Children any    `mapstructure:"children"`
}

type buttonProps struct {
	Children any    `mapstructure:"children"`
	Name     string `mapstructure:"name"`
	Variant  string `mapstructure:"variant"`
}

type iconProps struct {
	Name     string `mapstructure:"name"`
	Category string `mapstructure:"category"`
}

type statsProps struct {
	Number string `mapstructure:"number"`
	Label  string `mapstructure:"label"`
	Icon   string `mapstructure:"icon"`
}

type accordionProps struct {
	Children []any `mapstructure:"children"`
}

type sectionBlockProps struct {
	IsFoldable bool  `mapstructure:"isFoldable"`
	Sections   []any `mapstructure:"sections"`
}

type itemProps struct {
	Value   string `mapstructure:"value"`
	Trigger any    `mapstructure:"trigger"`
	Content any    `mapstructure:"content"`
}

// decodeProps fills out from a loosely typed prop map. Numbers and booleans
// are coerced to strings and single values to slices. Fields that cannot be
// coerced keep their zero value; the rest of the struct is still filled.
func decodeProps(in any, out any) {
	m, ok := in.(map[string]any)
	if !ok || len(m) == 0 {
		return
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return
	}
	_ = dec.Decode(m)
}

// text flattens a prop that is either a string, a number or an object with a
// text field (e.g. an accordion trigger).
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if s, ok := t["text"]; ok {
			return text(s)
		}
		if s, ok := t["children"]; ok {
			return text(s)
		}
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s := text(p); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// describe names a non-node value for an Unrecognized placeholder.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func isNodeValue(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m["component"]
	return ok
}

func oneOf(v string, fallback string, allowed ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}
