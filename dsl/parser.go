package dsl

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	fitLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:px|pt|mm|cm|in|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	kinds = newTokenKinds(fitLexer.Symbols())

	documentParser = participle.MustBuild[Document](
		participle.Lexer(fitLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// tokenKinds 缓存语法里需要区分的 token 类型，以及类型到名字的反查表。
type tokenKinds struct {
	names                                map[lexer.TokenType]string
	newline, lbrace, rbrace, symbol, str lexer.TokenType
}

func newTokenKinds(symbols map[string]lexer.TokenType) tokenKinds {
	k := tokenKinds{names: make(map[lexer.TokenType]string, len(symbols))}
	for name, tt := range symbols {
		k.names[tt] = name
	}
	lookup := func(name string) lexer.TokenType {
		tt, ok := symbols[name]
		if !ok {
			panic(fmt.Sprintf("dsl: token %s 未定义", name))
		}
		return tt
	}
	k.newline = lookup("Newline")
	k.lbrace = lookup("LBrace")
	k.rbrace = lookup("RBrace")
	k.symbol = lookup("Symbol")
	k.str = lookup("String")
	return k
}

func (k tokenKinds) name(tt lexer.TokenType) string {
	if name, ok := k.names[tt]; ok {
		return name
	}
	return fmt.Sprintf("#%d", tt)
}

// Document is the root AST node of a textfill document.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/resources/fill/page).
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Fill      *FillSection      `parser:"| @@"`
	Page      *PageSection      `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Fill != nil:
		return "fill"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// MetaSection captures metadata assignments.
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// ResourcesSection groups resource declarations.
type ResourcesSection struct {
	Block *Block `parser:"'resources' @@"`
}

// FillSection holds the text fitting options shared by every box of the document.
type FillSection struct {
	Block *Block `parser:"'fill' @@"`
}

// PageSection describes one page and the boxes placed on it.
type PageSection struct {
	Spec  PageSpec `parser:"'page' @@"`
	Block *Block   `parser:"@@"`
}

// PageSpec stores header tokens (eg: size, orientation, margin).
type PageSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block (assignment/command/text literal).
// Inner text elements are commands whose block holds text literals.
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command describes layout/drawing instructions.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral encapsulates raw string statements within blocks.
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value represents generic property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Expr   *Expression    `parser:"| @@"`
}

// ArrayValue captures `[ ... ]` expressions.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Expression records raw tokens for later evaluation.
type Expression struct {
	Parts []*Lexeme
}

// Parse implements participle.Parseable for Expression.
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var depth nesting
	for !endsExpression(lex.Peek(), depth) {
		lexeme, err := nextLexeme(lex)
		if err != nil {
			return err
		}
		depth.track(lexeme.Raw)
		e.Parts = append(e.Parts, lexeme)
	}
	if len(e.Parts) == 0 {
		return participle.NextMatch
	}
	return nil
}

// Lexeme captures a single lexical token (used by commands/expressions).
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable so Lexeme can act as a grammar atom.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if endsArgs(lex.Peek()) {
		return participle.NextMatch
	}
	lexeme, err := nextLexeme(lex)
	if err != nil {
		return err
	}
	*l = *lexeme
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse reads a whole document from r.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses an in-memory document.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// ParseFile parses the document stored at path; error positions carry the file name.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开 DSL 文件 %s: %w", path, err)
	}
	defer f.Close()
	return documentParser.Parse(path, f)
}

// nesting 记录表达式内尚未闭合的括号层数。
type nesting struct {
	paren, bracket int
}

func (n nesting) flat() bool { return n.paren == 0 && n.bracket == 0 }

func (n *nesting) track(raw string) {
	switch raw {
	case "(":
		n.paren++
	case ")":
		n.paren = max(n.paren-1, 0)
	case "[":
		n.bracket++
	case "]":
		n.bracket = max(n.bracket-1, 0)
	}
}

// endsArgs 判断命令参数是否到此为止：换行、花括号或分号。
func endsArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case kinds.newline, kinds.lbrace, kinds.rbrace:
		return true
	case kinds.symbol:
		return tok.Value == ";"
	}
	return false
}

// endsExpression 与 endsArgs 类似，但括号内的换行和分隔符不结束表达式。
func endsExpression(tok *lexer.Token, n nesting) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case kinds.newline, kinds.lbrace, kinds.rbrace:
		return n.flat()
	case kinds.symbol:
		switch tok.Value {
		case ";", ",":
			return n.flat()
		case "]":
			return n.bracket == 0
		}
	}
	return false
}

// nextLexeme 消耗一个 token，字符串会被反转义。
func nextLexeme(lex *lexer.PeekingLexer) (*Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return nil, participle.NextMatch
	}
	value := tok.Value
	if tok.Type == kinds.str {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return nil, err
		}
		value = unquoted
	}
	return &Lexeme{
		Type:  kinds.name(tok.Type),
		Value: value,
		Raw:   tok.Value,
		Pos:   tok.Pos,
	}, nil
}
