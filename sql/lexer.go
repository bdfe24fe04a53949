package sql

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-sif/sifread/errors"
)

// TokenType classifies a Token
type TokenType int

const (
	// TokenKeyword is a reserved word, upper-cased
	TokenKeyword TokenType = iota
	// TokenIdentifier is a table or column name
	TokenIdentifier
	// TokenNumber is a numeric literal
	TokenNumber
	// TokenString is a quoted string literal, without its quotes
	TokenString
	// TokenSymbol is an operator or punctuation
	TokenSymbol
	// TokenEOF marks the end of the input
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenKeyword:
		return "keyword"
	case TokenIdentifier:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenSymbol:
		return "symbol"
	default:
		return "end of input"
	}
}

// Token is a lexical unit of a query
type Token struct {
	Type  TokenType
	Value string
	Pos   int // byte offset of the token within the query
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}

var keywords = map[string]bool{
	"SELECT":   true,
	"FROM":     true,
	"WHERE":    true,
	"LIMIT":    true,
	"AS":       true,
	"AND":      true,
	"OR":       true,
	"NOT":      true,
	"IS":       true,
	"NULL":     true,
	"TRUE":     true,
	"FALSE":    true,
	"SHOW":     true,
	"TABLES":   true,
	"DESCRIBE": true,
	"DESC":     true,
}

// Lexer splits a query into Tokens. Whitespace and comments are skipped.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a Lexer over a query
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) errorf(pos int, format string, args ...interface{}) error {
	return &errors.SQLSyntaxError{Query: l.input, Pos: pos, Reason: fmt.Sprintf(format, args...)}
}

// NextToken returns the next Token of the query
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	ch := l.input[l.pos]
	switch {
	case isAlpha(ch) || ch == '_':
		return l.scanIdentifier(), nil
	case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		return l.scanNumber(), nil
	case ch == '\'' || ch == '"':
		return l.scanString(ch)
	case ch == '`':
		return l.scanQuotedIdentifier()
	}

	start := l.pos
	l.pos++
	switch ch {
	case '<':
		if l.pos < len(l.input) && (l.input[l.pos] == '=' || l.input[l.pos] == '>') {
			l.pos++
		}
	case '>':
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
		}
	case '!':
		if l.pos >= len(l.input) || l.input[l.pos] != '=' {
			return Token{}, l.errorf(start, "unexpected character '!'")
		}
		l.pos++
	case '=', ',', '(', ')', '*', ';', '-':
	default:
		return Token{}, l.errorf(start, "unexpected character %q", ch)
	}
	return Token{Type: TokenSymbol, Value: l.input[start:l.pos], Pos: start}, nil
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for l.pos < len(l.input) {
		switch {
		case unicode.IsSpace(rune(l.input[l.pos])):
			l.pos++
		case strings.HasPrefix(l.input[l.pos:], "--"):
			end := strings.IndexByte(l.input[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.input)
			} else {
				l.pos += end + 1
			}
		case strings.HasPrefix(l.input[l.pos:], "/*"):
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				return l.errorf(l.pos, "unterminated comment")
			}
			l.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	for l.pos < len(l.input) && (isAlpha(l.input[l.pos]) || isDigit(l.input[l.pos]) || l.input[l.pos] == '_') {
		l.pos++
	}
	val := l.input[start:l.pos]
	if upper := strings.ToUpper(val); keywords[upper] {
		return Token{Type: TokenKeyword, Value: upper, Pos: start}
	}
	return Token{Type: TokenIdentifier, Value: val, Pos: start}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '.' && !seenDot {
			seenDot = true
		} else if !isDigit(ch) {
			break
		}
		l.pos++
	}
	return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start}
}

// scanDelimited reads text up to an unescaped closing quote. A doubled quote is an escaped quote.
func (l *Lexer) scanDelimited(quote byte) (string, error) {
	start := l.pos
	l.pos++ // skip start quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == quote {
				sb.WriteByte(quote)
				l.pos += 2
				continue
			}
			l.pos++ // skip end quote
			return sb.String(), nil
		}
		sb.WriteByte(ch)
		l.pos++
	}
	return "", l.errorf(start, "unterminated %c", quote)
}

func (l *Lexer) scanString(quote byte) (Token, error) {
	start := l.pos
	val, err := l.scanDelimited(quote)
	if err != nil {
		return Token{}, err
	}
	return Token{Type: TokenString, Value: val, Pos: start}, nil
}

func (l *Lexer) scanQuotedIdentifier() (Token, error) {
	start := l.pos
	val, err := l.scanDelimited('`')
	if err != nil {
		return Token{}, err
	}
	if len(val) == 0 {
		return Token{}, l.errorf(start, "empty quoted identifier")
	}
	return Token{Type: TokenIdentifier, Value: val, Pos: start}, nil
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
