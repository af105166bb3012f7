package dsl

import (
	"fmt"
	"strconv"
)

// Parser consumes a Lexer's token stream and builds a Program.
type Parser struct {
	lex  *Lexer
	tok  Token
	more bool
}

// Parse lexes and parses src into a Program.
func Parse(src string) (*Program, error) {
	p := &Parser{lex: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

func (p *Parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = t
	p.more = t.Kind != TokEOF
	return nil
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for {
		if p.tok.Kind == TokEOF {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
		if p.tok.Kind == TokSemi || p.tok.Kind == TokPipe {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.tok.Kind != TokEOF {
		return nil, fmt.Errorf("dsl: unexpected %s at %d, expected ';', '|', or end of input", p.tok.Kind, p.tok.Pos)
	}
	return prog, nil
}

func (p *Parser) parseStmt() (Stmt, error) {
	if p.tok.Kind == TokLBrack {
		return p.parseNodeDef()
	}
	call, err := p.parseFilterCall()
	if err != nil {
		return Stmt{}, err
	}
	return Stmt{Call: call}, nil
}

func (p *Parser) parseNodeDef() (Stmt, error) {
	if err := p.expect(TokLBrack); err != nil {
		return Stmt{}, err
	}
	if p.tok.Kind != TokIdent {
		return Stmt{}, fmt.Errorf("dsl: expected node name at %d, got %s", p.tok.Pos, p.tok.Kind)
	}
	name := p.tok.Text
	if err := p.advance(); err != nil {
		return Stmt{}, err
	}
	if err := p.expect(TokColon); err != nil {
		return Stmt{}, err
	}
	call, err := p.parseFilterCall()
	if err != nil {
		return Stmt{}, err
	}
	if err := p.expect(TokRBrack); err != nil {
		return Stmt{}, err
	}
	return Stmt{NodeName: name, Call: call}, nil
}

func (p *Parser) parseFilterCall() (FilterCall, error) {
	if p.tok.Kind != TokIdent {
		return FilterCall{}, fmt.Errorf("dsl: expected filter name at %d, got %s", p.tok.Pos, p.tok.Kind)
	}
	call := FilterCall{Name: p.tok.Text}
	if err := p.advance(); err != nil {
		return FilterCall{}, err
	}
	for p.startsArg() {
		arg, err := p.parseArg()
		if err != nil {
			return FilterCall{}, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

// startsArg reports whether the current token can begin another
// argument, i.e. we have not reached a statement/node-def terminator.
func (p *Parser) startsArg() bool {
	switch p.tok.Kind {
	case TokSemi, TokPipe, TokRBrack, TokEOF:
		return false
	default:
		return true
	}
}

func (p *Parser) parseArg() (Arg, error) {
	// Look ahead for "ident '=' value" (a kv arg); anything else is a
	// bare positional value.
	if p.tok.Kind == TokIdent {
		save, savePos := *p, p.lex.pos
		key := p.tok.Text
		if err := p.advance(); err != nil {
			return Arg{}, err
		}
		if p.tok.Kind == TokEquals {
			if err := p.advance(); err != nil {
				return Arg{}, err
			}
			val, err := p.parseValue()
			if err != nil {
				return Arg{}, err
			}
			return Arg{Key: key, Value: val}, nil
		}
		*p = save
		p.lex.pos = savePos
	}
	val, err := p.parseValue()
	if err != nil {
		return Arg{}, err
	}
	return Arg{Value: val}, nil
}

func (p *Parser) parseValue() (Value, error) {
	first, err := p.parsePrimaryValue()
	if err != nil {
		return Value{}, err
	}
	if p.tok.Kind != TokComma {
		return first, nil
	}
	tuple := []Value{first}
	for p.tok.Kind == TokComma {
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		v, err := p.parsePrimaryValue()
		if err != nil {
			return Value{}, err
		}
		tuple = append(tuple, v)
	}
	return Value{Kind: ValTuple, Tuple: tuple}, nil
}

func (p *Parser) parsePrimaryValue() (Value, error) {
	switch p.tok.Kind {
	case TokNumber:
		n, err := strconv.ParseFloat(p.tok.Text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("dsl: invalid number %q at %d: %w", p.tok.Text, p.tok.Pos, err)
		}
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValNumber, Number: n}, nil
	case TokString:
		s := p.tok.Text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValString, Str: s}, nil
	case TokColor:
		c := p.tok.Text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValColor, Color: c}, nil
	case TokIdent:
		switch p.tok.Text {
		case "true", "false":
			b := p.tok.Text == "true"
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			return Value{Kind: ValBool, Bool: b}, nil
		}
		node := p.tok.Text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		port := ""
		if p.tok.Kind == TokDot {
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			if p.tok.Kind != TokIdent {
				return Value{}, fmt.Errorf("dsl: expected port name after '.' at %d, got %s", p.tok.Pos, p.tok.Kind)
			}
			port = p.tok.Text
			if err := p.advance(); err != nil {
				return Value{}, err
			}
		}
		return Value{Kind: ValRef, RefNode: node, RefPort: port}, nil
	default:
		return Value{}, fmt.Errorf("dsl: expected a value at %d, got %s", p.tok.Pos, p.tok.Kind)
	}
}

func (p *Parser) expect(k TokenKind) error {
	if p.tok.Kind != k {
		return fmt.Errorf("dsl: expected %s at %d, got %s", k, p.tok.Pos, p.tok.Kind)
	}
	return p.advance()
}
