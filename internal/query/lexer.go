package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenTerm
	TokenPhrase
	TokenField
	TokenRange
	TokenLParen
	TokenRParen
	TokenAnd
	TokenOr
	TokenNot
	TokenMinus
	TokenPlus
)

var tokenNames = map[TokenType]string{
	TokenEOF:    "end of query",
	TokenTerm:   "term",
	TokenPhrase: "phrase",
	TokenField:  "field",
	TokenRange:  "range",
	TokenLParen: "'('",
	TokenRParen: "')'",
	TokenAnd:    "AND",
	TokenOr:     "OR",
	TokenNot:    "NOT",
	TokenMinus:  "'-'",
	TokenPlus:   "'+'",
}

func (t TokenType) String() string {
	return tokenNames[t]
}

// Token represents a lexical token. Start and End are byte offsets into the
// lexed text.
type Token struct {
	Type TokenType

	// Value is the unescaped text: the term, the phrase content, the field
	// name or the raw range content between the brackets.
	Value string

	// Wildcard is set on terms that ended in an unescaped '*'; the '*' is
	// not part of Value.
	Wildcard bool

	Start int
	End   int
}

// Lexer tokenizes query text.
//
// Lexing is context-sensitive: right after "field:" the lexer reads one value
// in which ':' and '-' are ordinary characters, and inside a value group
// "field:( ... )" no term is ever read as a field name.
type Lexer struct {
	input      string
	pos        int
	afterField bool
	fieldStart int
	groupDepth int
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize lexes the whole input. The last token is always TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() (Token, error) {
	if l.afterField {
		l.afterField = false
		return l.readValue()
	}

	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Start: l.pos, End: l.pos}, nil
	}

	start := l.pos
	switch ch := l.input[l.pos]; ch {
	case '(':
		l.pos++
		if l.groupDepth > 0 {
			l.groupDepth++
		}
		return Token{Type: TokenLParen, Value: "(", Start: start, End: l.pos}, nil
	case ')':
		l.pos++
		if l.groupDepth > 0 {
			l.groupDepth--
		}
		return Token{Type: TokenRParen, Value: ")", Start: start, End: l.pos}, nil
	case '"':
		return l.readPhrase()
	case '[':
		return l.readRange()
	case '-', '+':
		return l.readPrefixOperator()
	case ':':
		if l.groupDepth == 0 {
			return Token{}, l.errorf(start, ":", "missing field name before ':'")
		}
	}

	return l.readTerm(l.groupDepth > 0)
}

// readValue reads the single value that follows "field:".
func (l *Lexer) readValue() (Token, error) {
	start := l.pos
	if l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '"':
			return l.readPhrase()
		case '[':
			return l.readRange()
		case '(':
			l.pos++
			l.groupDepth = 1
			return Token{Type: TokenLParen, Value: "(", Start: start, End: l.pos}, nil
		}
	}
	if l.pos >= len(l.input) || l.isTermEnd(l.pos) {
		return Token{}, l.errorf(l.fieldStart, l.input[l.fieldStart:l.pos], "missing value after ':'")
	}
	return l.readTerm(true)
}

// readPrefixOperator reads a leading '-' or '+'. Operators must be a single
// character directly attached to what they apply to.
func (l *Lexer) readPrefixOperator() (Token, error) {
	start := l.pos
	ch := l.input[l.pos]
	l.pos++

	if l.pos < len(l.input) && (l.input[l.pos] == '-' || l.input[l.pos] == '+') {
		end := l.pos
		for end < len(l.input) && (l.input[end] == '-' || l.input[end] == '+') {
			end++
		}
		return Token{}, l.errorf(start, l.input[start:end], "multi-character operator")
	}
	if l.pos >= len(l.input) || l.isSpace(l.pos) || l.input[l.pos] == ')' {
		return Token{}, l.errorf(start, string(ch), "dangling operator")
	}

	typ := TokenMinus
	if ch == '+' {
		typ = TokenPlus
	}
	return Token{Type: typ, Value: string(ch), Start: start, End: l.pos}, nil
}

// readTerm reads a bare term. Outside values an unescaped ':' ends the term
// and turns it into a field name; AND, OR and NOT are keywords.
func (l *Lexer) readTerm(value bool) (Token, error) {
	start := l.pos
	var b strings.Builder
	lastEscaped := false

	for l.pos < len(l.input) && !l.isTermEnd(l.pos) {
		ch := l.input[l.pos]
		if ch == '\\' {
			r, size, err := l.escaped()
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(r)
			l.pos += 1 + size
			lastEscaped = true
			continue
		}
		if ch == ':' && !value {
			name := b.String()
			l.pos++
			l.afterField = true
			l.fieldStart = start
			return Token{Type: TokenField, Value: name, Start: start, End: l.pos}, nil
		}
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		b.WriteRune(r)
		l.pos += size
		lastEscaped = false
	}

	tok := Token{Type: TokenTerm, Value: b.String(), Start: start, End: l.pos}
	if !lastEscaped && strings.HasSuffix(tok.Value, "*") {
		tok.Value = strings.TrimSuffix(tok.Value, "*")
		tok.Wildcard = true
	}
	keywords := !value || l.groupDepth > 0
	if keywords && !tok.Wildcard && l.input[start:l.pos] == tok.Value {
		switch tok.Value {
		case "AND":
			tok.Type = TokenAnd
		case "OR":
			tok.Type = TokenOr
		case "NOT":
			tok.Type = TokenNot
		}
	}
	return tok, nil
}

// readPhrase reads a double-quoted phrase with backslash escapes.
func (l *Lexer) readPhrase() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '\\':
			r, size, err := l.escaped()
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(r)
			l.pos += 1 + size
			continue
		case '"':
			l.pos++
			return Token{Type: TokenPhrase, Value: b.String(), Start: start, End: l.pos}, nil
		}
		b.WriteByte(ch)
		l.pos++
	}
	return Token{}, l.errorf(start, l.input[start:], "unterminated phrase")
}

// readRange reads "[ ... ]" and returns the content between the brackets.
func (l *Lexer) readRange() (Token, error) {
	start := l.pos
	l.pos++ // opening bracket
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '\\':
			r, size, err := l.escaped()
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(r)
			l.pos += 1 + size
			continue
		case '[':
			return Token{}, l.errorf(l.pos, "[", "nested range")
		case ']':
			l.pos++
			return Token{Type: TokenRange, Value: b.String(), Start: start, End: l.pos}, nil
		}
		b.WriteByte(ch)
		l.pos++
	}
	return Token{}, l.errorf(start, l.input[start:], "unterminated range")
}

// escaped decodes the character after the backslash at l.pos.
func (l *Lexer) escaped() (rune, int, error) {
	if l.pos+1 >= len(l.input) {
		return 0, 0, l.errorf(l.pos, `\`, "dangling escape")
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos+1:])
	return r, size, nil
}

func (l *Lexer) isTermEnd(pos int) bool {
	if l.isSpace(pos) {
		return true
	}
	switch l.input[pos] {
	case '(', ')', '"':
		return true
	}
	return false
}

func (l *Lexer) isSpace(pos int) bool {
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return unicode.IsSpace(r)
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *Lexer) errorf(pos int, token, msg string) *SyntaxError {
	return &SyntaxError{Query: l.input, Pos: pos, Token: token, Msg: msg}
}
