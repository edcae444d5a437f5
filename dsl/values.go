package dsl

import (
	"strconv"
	"strings"
)

// Text flattens a value into its string form. Expressions are joined without
// separators so that `-1` or `true` read back as written.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	switch {
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Expr != nil:
		var b strings.Builder
		for _, part := range v.Expr.Parts {
			b.WriteString(part.Value)
		}
		return b.String()
	default:
		return ""
	}
}

// Strings returns array items as strings; a scalar yields a single item.
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.Array != nil {
		out := make([]string, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			if s := item.Text(); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := v.Text(); s != "" {
		return []string{s}
	}
	return nil
}

// Bool interprets true/false/yes/no/on/off/1/0.
func (v *Value) Bool() (bool, bool) {
	return ParseBool(v.Text())
}

// ParseBool is the lenient boolean parser shared by assignments and command args.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, true
	}
	return false, false
}

// Attrs splits command args into an optional leading style name and key/value pairs:
// `span Title size 12px hidden true` -> ("Title", {size: 12px, hidden: true}).
// A trailing key without value is ignored.
func (c *Command) Attrs(allowStyle bool) (string, map[string]string) {
	attrs := map[string]string{}
	if c == nil || len(c.Args) == 0 {
		return "", attrs
	}
	args := joinSigned(c.Args)
	cursor := 0
	var style string
	if allowStyle && len(args)%2 == 1 && args[0].Type == "Ident" {
		style = args[0].Value
		cursor = 1
	}
	for cursor < len(args)-1 {
		attrs[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return style, attrs
}

// joinSigned merges a '-' symbol with the number that follows it.
func joinSigned(args []*Lexeme) []*Lexeme {
	out := make([]*Lexeme, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a.Type == "Symbol" && a.Value == "-" && i+1 < len(args) && args[i+1].Type == "Number" {
			n := *args[i+1]
			n.Value = "-" + n.Value
			n.Raw = "-" + n.Raw
			n.Pos = a.Pos
			out = append(out, &n)
			i++
			continue
		}
		out = append(out, a)
	}
	return out
}

// Text concatenates the text literals of a block.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range b.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

// Commands returns the command statements of a block in order.
func (b *Block) Commands() []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, stmt := range b.Statements {
		if stmt.Command != nil {
			out = append(out, stmt.Command)
		}
	}
	return out
}

// Assignments returns the key/value statements of a block in order.
func (b *Block) Assignments() []*Assignment {
	if b == nil {
		return nil
	}
	var out []*Assignment
	for _, stmt := range b.Statements {
		if stmt.Assignment != nil {
			out = append(out, stmt.Assignment)
		}
	}
	return out
}
