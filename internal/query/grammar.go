package query

import (
	"strings"

	"github.com/roach88/filterql/internal/ast"
)

// grammar is a recursive-descent parser over a token slice.
//
// Precedence, tightest first: NOT and '-' (right-associative), AND, OR.
// Top-level adjacency separates independent clauses; adjacency inside a
// parenthesised group means AND; adjacency inside a value group means OR.
type grammar struct {
	src  string
	toks []Token
	pos  int
}

func parseClauses(src string, toks []Token) ([]*ast.Clause, error) {
	g := &grammar{src: src, toks: toks}
	var clauses []*ast.Clause
	for g.peek().Type != TokenEOF {
		if g.peek().Type == TokenRParen {
			return nil, g.errorf(g.peek(), "unbalanced ')'")
		}
		c, err := g.parseOr()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}

func (g *grammar) peek() Token {
	return g.toks[g.pos]
}

func (g *grammar) advance() Token {
	tok := g.toks[g.pos]
	if tok.Type != TokenEOF {
		g.pos++
	}
	return tok
}

// span returns the source text from token index start to the last consumed
// token.
func (g *grammar) span(start int) string {
	return g.src[g.toks[start].Start:g.toks[g.pos-1].End]
}

// expectOperand fails when op is not followed by something it can apply to.
func (g *grammar) expectOperand(op Token) error {
	switch g.peek().Type {
	case TokenEOF, TokenRParen, TokenAnd, TokenOr:
		return g.errorf(op, "dangling operator")
	}
	return nil
}

func (g *grammar) parseOr() (*ast.Clause, error) {
	start := g.pos
	left, err := g.parseAnd()
	if err != nil {
		return nil, err
	}
	for g.peek().Type == TokenOr {
		op := g.advance()
		if err := g.expectOperand(op); err != nil {
			return nil, err
		}
		right, err := g.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Clause{
			Body:   &ast.BinaryClause{Op: ast.OpOr, Left: left, Right: right},
			Source: g.span(start),
		}
	}
	return left, nil
}

func (g *grammar) parseAnd() (*ast.Clause, error) {
	start := g.pos
	left, err := g.parseUnary()
	if err != nil {
		return nil, err
	}
	for g.peek().Type == TokenAnd {
		op := g.advance()
		if err := g.expectOperand(op); err != nil {
			return nil, err
		}
		right, err := g.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Clause{
			Body:   &ast.BinaryClause{Op: ast.OpAnd, Left: left, Right: right},
			Source: g.span(start),
		}
	}
	return left, nil
}

func (g *grammar) parseUnary() (*ast.Clause, error) {
	start := g.pos
	switch tok := g.peek(); tok.Type {
	case TokenNot, TokenMinus:
		g.advance()
		if err := g.expectOperand(tok); err != nil {
			return nil, err
		}
		c, err := g.parseUnary() // right-associative
		if err != nil {
			return nil, err
		}
		return negate(c, g.span(start)), nil

	case TokenPlus:
		g.advance()
		c, err := g.parseUnary()
		if err != nil {
			return nil, err
		}
		c.Source = g.span(start)
		return c, nil
	}
	return g.parsePrimary()
}

// negate flips the negation of a term, or wraps anything else in a NOT.
func negate(c *ast.Clause, source string) *ast.Clause {
	if _, ok := c.Body.(*ast.SimpleTerm); ok {
		c.Negated = !c.Negated
		c.Source = source
		return c
	}
	return &ast.Clause{
		Body:   &ast.UnaryClause{Op: ast.OpNot, Clause: c},
		Source: source,
	}
}

func (g *grammar) parsePrimary() (*ast.Clause, error) {
	start := g.pos
	tok := g.advance()

	switch tok.Type {
	case TokenLParen:
		inner, err := g.parseGroup(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Clause{Body: &ast.ComplexTerm{Clause: inner}, Source: g.span(start)}, nil

	case TokenField:
		if tok.Value == "" {
			return nil, g.errorf(tok, "missing field name before ':'")
		}
		lit, err := g.parseFieldValue()
		if err != nil {
			return nil, err
		}
		return &ast.Clause{Field: tok.Value, Body: &ast.SimpleTerm{Literal: lit}, Source: g.span(start)}, nil

	case TokenTerm, TokenPhrase, TokenRange:
		lit, err := g.literal(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Clause{Body: &ast.SimpleTerm{Literal: lit}, Source: g.span(start)}, nil

	case TokenAnd, TokenOr:
		return nil, g.errorf(tok, "dangling operator")

	case TokenRParen:
		return nil, g.errorf(tok, "unbalanced ')'")

	default:
		return nil, g.errorf(tok, "unexpected end of query")
	}
}

// parseGroup parses clauses up to the ')' matching open. Adjacent clauses
// are joined with AND.
func (g *grammar) parseGroup(open Token) (*ast.Clause, error) {
	start := g.pos
	var group *ast.Clause
	for {
		switch g.peek().Type {
		case TokenRParen:
			if group == nil {
				return nil, g.errorf(g.peek(), "empty group")
			}
			g.advance()
			return group, nil
		case TokenEOF:
			return nil, g.errorf(open, "unterminated group")
		}

		c, err := g.parseOr()
		if err != nil {
			return nil, err
		}
		if group == nil {
			group = c
			continue
		}
		group = &ast.Clause{
			Body:   &ast.BinaryClause{Op: ast.OpAnd, Left: group, Right: c},
			Source: g.span(start),
		}
	}
}

// parseFieldValue parses the literal after "field:".
func (g *grammar) parseFieldValue() (ast.Literal, error) {
	tok := g.advance()
	switch tok.Type {
	case TokenTerm, TokenPhrase, TokenRange:
		return g.literal(tok)
	case TokenLParen:
		lit, err := g.parseLitOr()
		if err != nil {
			return nil, err
		}
		if g.peek().Type != TokenRParen {
			return nil, g.errorf(tok, "unterminated group")
		}
		g.advance()
		if values, ok := plainAlternatives(lit); ok {
			return &ast.TermsLiteral{Values: values}, nil
		}
		return lit, nil
	default:
		return nil, g.errorf(tok, "missing value after ':'")
	}
}

// parseLitOr parses a value group body. Adjacent values are alternatives.
func (g *grammar) parseLitOr() (ast.Literal, error) {
	left, err := g.parseLitAnd()
	if err != nil {
		return nil, err
	}
	for {
		switch g.peek().Type {
		case TokenOr:
			op := g.advance()
			if err := g.expectOperand(op); err != nil {
				return nil, err
			}
		case TokenTerm, TokenPhrase, TokenRange, TokenLParen, TokenNot, TokenMinus, TokenPlus:
		default:
			return left, nil
		}
		right, err := g.parseLitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryBooleanLiteral{Op: ast.OpOr, Left: left, Right: right}
	}
}

func (g *grammar) parseLitAnd() (ast.Literal, error) {
	left, err := g.parseLitUnary()
	if err != nil {
		return nil, err
	}
	for g.peek().Type == TokenAnd {
		op := g.advance()
		if err := g.expectOperand(op); err != nil {
			return nil, err
		}
		right, err := g.parseLitUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryBooleanLiteral{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (g *grammar) parseLitUnary() (ast.Literal, error) {
	switch tok := g.peek(); tok.Type {
	case TokenNot, TokenMinus:
		g.advance()
		if err := g.expectOperand(tok); err != nil {
			return nil, err
		}
		operand, err := g.parseLitUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryBooleanLiteral{Op: ast.OpNot, Operand: operand}, nil
	case TokenPlus:
		g.advance()
		return g.parseLitUnary()
	}
	return g.parseLitPrimary()
}

func (g *grammar) parseLitPrimary() (ast.Literal, error) {
	tok := g.advance()
	switch tok.Type {
	case TokenTerm, TokenPhrase, TokenRange:
		return g.literal(tok)
	case TokenLParen:
		lit, err := g.parseLitOr()
		if err != nil {
			return nil, err
		}
		if g.peek().Type != TokenRParen {
			return nil, g.errorf(tok, "unterminated group")
		}
		g.advance()
		return lit, nil
	case TokenRParen:
		return nil, g.errorf(tok, "empty group")
	case TokenEOF:
		return nil, g.errorf(tok, "unterminated group")
	default:
		return nil, g.errorf(tok, "unexpected "+tok.Type.String())
	}
}

// literal converts a term, phrase or range token.
func (g *grammar) literal(tok Token) (ast.Literal, error) {
	switch tok.Type {
	case TokenPhrase:
		return &ast.BooleanLeaf{Value: tok.Value, Quoted: true}, nil
	case TokenRange:
		parts := strings.Fields(tok.Value)
		if len(parts) != 3 || parts[1] != "TO" {
			return nil, g.errorf(tok, "malformed range, want [from TO to]")
		}
		return &ast.RangeLiteral{From: parts[0], To: parts[2]}, nil
	default:
		return &ast.BooleanLeaf{Value: tok.Value, Wildcard: tok.Wildcard}, nil
	}
}

// plainAlternatives flattens a literal made only of leaves joined by OR.
func plainAlternatives(lit ast.Literal) ([]*ast.BooleanLeaf, bool) {
	switch l := lit.(type) {
	case *ast.BooleanLeaf:
		return []*ast.BooleanLeaf{l}, true
	case *ast.BinaryBooleanLiteral:
		if l.Op != ast.OpOr {
			return nil, false
		}
		left, ok := plainAlternatives(l.Left)
		if !ok {
			return nil, false
		}
		right, ok := plainAlternatives(l.Right)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	default:
		return nil, false
	}
}

func (g *grammar) errorf(tok Token, msg string) *SyntaxError {
	return &SyntaxError{Query: g.src, Pos: tok.Start, Token: g.src[tok.Start:tok.End], Msg: msg}
}
