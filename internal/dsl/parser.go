package dsl

import (
	"strings"

	"usdtgen/internal/typemap"
)

// Parse parses a provider file. name is used in positions and kept as the
// file name; it is not opened.
func Parse(name string, src []byte) (*File, error) {
	toks, err := tokenize(name, src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	return p.parseFile(name)
}

type parser struct {
	toks []token
	next int
	// open holds the delimiters not closed yet, innermost last.
	open []block
}

type block struct {
	pos  Pos
	what string
}

func (p *parser) peek() token {
	return p.toks[p.next]
}

func (p *parser) advance() token {
	t := p.toks[p.next]
	if t.kind != tokEOF {
		p.next++
	}

	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.fail(t, kind.String())
	}

	return p.advance(), nil
}

// fail reports t as unexpected. End of input inside an open block is
// reported against the block instead.
func (p *parser) fail(t token, expected ...string) error {
	if t.kind == tokEOF && len(p.open) > 0 {
		b := p.open[len(p.open)-1]
		return &UnterminatedBlockError{Pos: b.pos, What: b.what}
	}

	return &UnexpectedTokenError{Pos: t.pos, Found: t.describe(), Expected: expected}
}

func (p *parser) push(t token, what string) {
	p.open = append(p.open, block{pos: t.pos, what: what})
}

func (p *parser) pop() {
	p.open = p.open[:len(p.open)-1]
}

func (p *parser) parseFile(name string) (*File, error) {
	f := &File{Name: name}

	for p.peek().kind != tokEOF {
		if p.peek().kind != tokProvider {
			return nil, p.fail(p.peek(), tokProvider.String())
		}

		prov, err := p.parseProvider()
		if err != nil {
			return nil, err
		}

		f.Providers = append(f.Providers, prov)
	}

	return f, nil
}

func (p *parser) parseProvider() (Provider, error) {
	kw := p.advance()

	name, err := p.expect(tokIdent)
	if err != nil {
		return Provider{}, err
	}

	open, err := p.expect(tokLBrace)
	if err != nil {
		return Provider{}, err
	}

	p.push(open, "provider "+name.text)

	prov := Provider{Name: name.text, Pos: kw.pos}

	for {
		t := p.peek()

		switch t.kind {
		case tokRBrace:
			p.advance()
			p.pop()

			if p.peek().kind == tokSemi {
				p.advance()
			}

			return prov, nil
		case tokProbe:
			probe, err := p.parseProbe()
			if err != nil {
				return Provider{}, err
			}

			prov.Probes = append(prov.Probes, probe)
		default:
			return Provider{}, p.fail(t, tokProbe.String(), tokRBrace.String())
		}
	}
}

func (p *parser) parseProbe() (Probe, error) {
	kw := p.advance()

	name, err := p.expect(tokIdent)
	if err != nil {
		return Probe{}, err
	}

	open, err := p.expect(tokLParen)
	if err != nil {
		return Probe{}, err
	}

	p.push(open, "argument list of probe "+name.text)

	probe := Probe{Name: name.text, Pos: kw.pos}

	for p.peek().kind != tokRParen {
		arg, err := p.parseParam()
		if err != nil {
			return Probe{}, err
		}

		arg.Index = len(probe.Args)
		probe.Args = append(probe.Args, arg)

		switch t := p.peek(); t.kind {
		case tokComma:
			p.advance()
		case tokRParen:
		default:
			return Probe{}, p.fail(t, tokComma.String(), tokRParen.String())
		}
	}

	p.advance()
	p.pop()

	if _, err := p.expect(tokSemi); err != nil {
		return Probe{}, err
	}

	return probe, nil
}

// parseParam consumes one "type [name]" run.
func (p *parser) parseParam() (Argument, error) {
	var run []token

	for {
		t := p.peek()
		if t.kind != tokIdent && t.kind != tokStar {
			break
		}

		run = append(run, p.advance())
	}

	if len(run) == 0 {
		return Argument{}, p.fail(p.peek(), "type")
	}

	start := run[0].pos
	spelling := spell(run)

	if info, ok := typemap.Lookup(spelling); ok {
		return Argument{Type: info.Type, Spelling: info.Spelling, Pos: start}, nil
	}

	if last := run[len(run)-1]; len(run) > 1 && last.kind == tokIdent {
		if info, ok := typemap.Lookup(spell(run[:len(run)-1])); ok {
			return Argument{Type: info.Type, Spelling: info.Spelling, Name: last.text, Pos: start}, nil
		}
	}

	return Argument{}, &UnknownTypeError{
		Name:       spelling,
		Pos:        start,
		Suggestion: Suggest(spelling, typemap.Spellings()),
	}
}

func spell(run []token) string {
	parts := make([]string, len(run))
	for i, t := range run {
		parts[i] = t.text
	}

	return typemap.Normalize(strings.Join(parts, " "))
}
