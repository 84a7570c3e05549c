package datemath

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Parser parses date-math expressions. Its configuration is fixed at
// construction, so a Parser is safe for concurrent use.
type Parser struct {
	clock Clock
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock NOW-rooted expressions capture. Defaults to
// SystemClock.
func WithClock(c Clock) Option {
	return func(p *Parser) {
		if c != nil {
			p.clock = c
		}
	}
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{clock: SystemClock{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseMath parses expr with a parser reading the system clock.
func ParseMath(expr string) (*Expression, error) {
	return NewParser().ParseMath(expr)
}

// ParseMathGap folds the operations of expr into a duration.
func ParseMathGap(expr string) (time.Duration, error) {
	return NewParser().ParseMathGap(expr)
}

// ParseMath parses a rooted expression such as "NOW/DAY-14DAYS".
func (p *Parser) ParseMath(expr string) (*Expression, error) {
	return p.parse(expr, false)
}

// ParseMathGap parses a span such as "+1DAY" or "-6MONTHS+2DAYS" into a
// duration. A root and a rounding are accepted and ignored. Calendar units
// use their estimated lengths.
func (p *Parser) ParseMathGap(expr string) (time.Duration, error) {
	e, err := p.parse(expr, true)
	if err != nil {
		return 0, err
	}
	var d time.Duration
	for _, op := range e.ops {
		d += time.Duration(op.signed()) * op.Unit.Estimate()
	}
	return d, nil
}

func (p *Parser) parse(expr string, gap bool) (*Expression, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		return nil, &SyntaxError{Expr: expr, Msg: "empty expression"}
	}

	e := &Expression{now: p.clock.Now().UTC()}
	rest := src
	if !gap || !startsWithCommand(src) {
		var ok bool
		rest, ok = parseRoot(e, src)
		if !ok {
			return nil, &SyntaxError{Expr: expr, Token: rootCandidate(src), Msg: "invalid root"}
		}
	}

	toks := tokenize(rest)
	for i := 0; i < len(toks); {
		cmd := toks[i]
		if cmd.kind != tokCommand {
			return nil, &SyntaxError{Expr: expr, Token: cmd.text, Msg: "expected command"}
		}
		if len(cmd.text) > 1 {
			return nil, &SyntaxError{Expr: expr, Token: cmd.text, Msg: "multi-character command"}
		}

		switch cmd.text {
		case "/":
			unit, err := unitAt(expr, toks, i+1, cmd.text)
			if err != nil {
				return nil, err
			}
			if !gap && (e.rounding != UnitNone || len(e.ops) > 0) {
				return nil, &SyntaxError{Expr: expr, Token: "/" + toks[i+1].text, Msg: "rounding must directly follow the root"}
			}
			if !gap {
				e.rounding = unit
			}
			i += 2

		case "+", "-":
			if i+1 >= len(toks) {
				return nil, &SyntaxError{Expr: expr, Token: cmd.text, Msg: "missing operand after command"}
			}
			num := toks[i+1]
			if num.kind != tokNumber {
				return nil, &SyntaxError{Expr: expr, Token: num.text, Msg: "expected number"}
			}
			n, err := strconv.Atoi(num.text)
			if err != nil {
				return nil, &SyntaxError{Expr: expr, Token: num.text, Msg: "malformed number"}
			}
			unit, err := unitAt(expr, toks, i+2, num.text)
			if err != nil {
				return nil, err
			}
			e.ops = append(e.ops, Op{Sub: cmd.text == "-", Quantity: n, Unit: unit})
			i += 3

		default:
			return nil, &SyntaxError{Expr: expr, Token: cmd.text, Msg: "unknown command"}
		}
	}
	return e, nil
}

// unitAt reads the unit token at toks[i]; prev names the token it follows.
func unitAt(expr string, toks []token, i int, prev string) (TimeUnit, error) {
	if i >= len(toks) {
		return UnitNone, &SyntaxError{Expr: expr, Token: prev, Msg: "missing unit"}
	}
	tok := toks[i]
	if tok.kind != tokWord {
		return UnitNone, &SyntaxError{Expr: expr, Token: tok.text, Msg: "expected unit"}
	}
	unit, ok := ParseUnit(tok.text)
	if !ok {
		return UnitNone, &SyntaxError{Expr: expr, Token: tok.text, Msg: "unknown unit"}
	}
	return unit, nil
}

// parseRoot sets the root of e from the longest parseable prefix of src and
// returns the remainder.
func parseRoot(e *Expression, src string) (string, bool) {
	if strings.HasPrefix(src, "NOW") {
		e.relative = true
		return src[len("NOW"):], true
	}
	for i := len(src); i > 0; i-- {
		if i < len(src) && !isCut(src[i]) {
			continue
		}
		if t, ok := parseInstant(src[:i]); ok {
			e.root = t
			return src[i:], true
		}
	}
	return "", false
}

func isCut(c byte) bool {
	return c == '+' || c == '-' || c == '/'
}

// rootCandidate returns the part of src most likely meant as the root.
func rootCandidate(src string) string {
	if i := strings.IndexAny(src, "+/"); i > 0 {
		return src[:i]
	}
	return src
}

func parseInstant(s string) (time.Time, bool) {
	if t, ok := parseDayFirst(s); ok {
		return t, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseDayFirst accepts dd-MM-yyyy when day and month are in range and the
// date exists.
func parseDayFirst(s string) (time.Time, bool) {
	if len(s) != 10 || s[2] != '-' || s[5] != '-' {
		return time.Time{}, false
	}
	day, err1 := digits(s[0:2])
	month, err2 := digits(s[3:5])
	year, err3 := digits(s[6:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func digits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

type tokenKind int

const (
	tokCommand tokenKind = iota
	tokNumber
	tokWord
)

type token struct {
	kind tokenKind
	text string
}

func classify(r rune) tokenKind {
	switch {
	case r >= '0' && r <= '9':
		return tokNumber
	case unicode.IsLetter(r) || r == '_':
		return tokWord
	default:
		return tokCommand
	}
}

// tokenize splits s into maximal runs of digits, letters and everything else.
func tokenize(s string) []token {
	var toks []token
	start := 0
	cur := tokCommand
	for i, r := range s {
		k := classify(r)
		if i > start && k != cur {
			toks = append(toks, token{kind: cur, text: s[start:i]})
			start = i
		}
		if i == start {
			cur = k
		}
	}
	if start < len(s) {
		toks = append(toks, token{kind: cur, text: s[start:]})
	}
	return toks
}

func startsWithCommand(s string) bool {
	for _, r := range s {
		return classify(r) == tokCommand
	}
	return false
}
