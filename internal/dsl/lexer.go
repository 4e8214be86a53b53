package dsl

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokProvider
	tokProbe
	tokIdent
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokComma
	tokSemi
	tokStar
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of file",
	tokProvider: `"provider"`,
	tokProbe:    `"probe"`,
	tokIdent:    "identifier",
	tokLBrace:   `"{"`,
	tokRBrace:   `"}"`,
	tokLParen:   `"("`,
	tokRParen:   `")"`,
	tokComma:    `","`,
	tokSemi:     `";"`,
	tokStar:     `"*"`,
}

func (k tokenKind) String() string {
	return tokenNames[k]
}

var literals = map[string]tokenKind{
	"{": tokLBrace,
	"}": tokRBrace,
	"(": tokLParen,
	")": tokRParen,
	",": tokComma,
	";": tokSemi,
	"*": tokStar,
}

var keywords = map[string]tokenKind{
	"provider": tokProvider,
	"probe":    tokProbe,
}

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

// describe renders the token for error messages.
func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return t.kind.String()
	case tokIdent:
		return fmt.Sprintf("identifier %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

var (
	lexerOnce sync.Once
	lexer     *lexmachine.Lexer
	errLexer  error
)

// compiledLexer builds the DFA once; scanners created from it are
// independent.
func compiledLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		l := lexmachine.NewLexer()
		l.Add([]byte(`( |\t|\n|\r)+`), skip)
		l.Add([]byte(`//[^\n]*`), skip)
		l.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), skip)

		// Keywords are added before identifiers so equal-length matches
		// resolve to the keyword.
		for _, kw := range []string{"provider", "probe"} {
			l.Add([]byte(kw), emit(keywords[kw]))
		}

		l.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), emit(tokIdent))

		for _, lit := range []string{"{", "}", "(", ")", ",", ";", "*"} {
			l.Add([]byte(`\`+lit), emit(literals[lit]))
		}

		if err := l.Compile(); err != nil {
			errLexer = fmt.Errorf("compiling lexer: %w", err)
			return
		}

		lexer = l
	})

	return lexer, errLexer
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func emit(kind tokenKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

// tokenize scans the whole input. The returned slice always ends with an
// EOF token.
func tokenize(filename string, src []byte) ([]token, error) {
	l, err := compiledLexer()
	if err != nil {
		return nil, err
	}

	scanner, err := l.Scanner(src)
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}

	lines := newLineIndex(filename, src)

	var toks []token

	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		var ui *machines.UnconsumedInput
		if errors.As(err, &ui) {
			return nil, unconsumed(lines, src, ui)
		}

		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", filename, err)
		}

		t := tok.(*lexmachine.Token)
		toks = append(toks, token{
			kind: tokenKind(t.Type),
			text: string(t.Lexeme),
			pos:  lines.pos(t.TC),
		})
	}

	toks = append(toks, token{kind: tokEOF, pos: lines.pos(len(src))})

	return toks, nil
}

// unconsumed turns a lexmachine failure into an UnexpectedTokenError.
func unconsumed(lines *lineIndex, src []byte, ui *machines.UnconsumedInput) error {
	pos := lines.pos(ui.StartTC)

	rest := ""
	if ui.StartTC >= 0 && ui.StartTC < len(src) {
		rest = string(src[ui.StartTC:])
	}

	found := "end of file"

	switch {
	case strings.HasPrefix(rest, "/*"):
		found = "unterminated comment"
	case strings.HasPrefix(rest, "#"):
		found = "preprocessor line"
	case rest != "":
		r := []rune(rest)[0]
		found = fmt.Sprintf("character %q", r)
	}

	return &UnexpectedTokenError{Pos: pos, Found: found}
}

// lineIndex maps byte offsets to 1-based line and column numbers. Columns
// count bytes.
type lineIndex struct {
	filename string
	starts   []int
}

func newLineIndex(filename string, src []byte) *lineIndex {
	starts := []int{0}

	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &lineIndex{filename: filename, starts: starts}
}

func (l *lineIndex) pos(offset int) Pos {
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}

	return Pos{Filename: l.filename, Line: line + 1, Column: offset - l.starts[line] + 1}
}
