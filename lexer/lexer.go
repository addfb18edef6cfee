// Package lexer tokenizes SQL source text for the parser, grounded on the
// lexer design in ha1tch-tsqlparser but trimmed to the ANSI-ish SELECT/DML
// grammar this project's parser consumes.
package lexer

import (
	"strings"

	"github.com/bawdo/gosbee/token"
)

// Lexer scans a SQL string and emits tokens one at a time via Next.
type Lexer struct {
	input string
	pos   int // current byte offset
	line  int
	col   int
}

// New creates a Lexer over the given SQL source.
func New(input string) *Lexer {
	return &Lexer{input: input, pos: 0, line: 1, col: 1}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.input) {
		return 0
	}
	return l.input[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.peekByte()
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
func isIdentChar(c byte) bool { return isLetter(c) || isDigit(c) }

// Next returns the next token in the stream, including a final EOF token.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()
	pos := l.position()

	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	c := l.peekByte()

	switch {
	case isLetter(c):
		return l.readIdent(pos)
	case isDigit(c):
		return l.readNumber(pos)
	case c == '\'':
		return l.readString(pos)
	case c == '"':
		return l.readQuotedIdent(pos)
	}

	switch c {
	case '+':
		l.advance()
		return token.Token{Type: token.PLUS, Literal: "+", Pos: pos}
	case '-':
		l.advance()
		return token.Token{Type: token.MINUS, Literal: "-", Pos: pos}
	case '*':
		l.advance()
		return token.Token{Type: token.ASTERISK, Literal: "*", Pos: pos}
	case '/':
		l.advance()
		return token.Token{Type: token.SLASH, Literal: "/", Pos: pos}
	case '%':
		l.advance()
		return token.Token{Type: token.PERCENT, Literal: "%", Pos: pos}
	case ',':
		l.advance()
		return token.Token{Type: token.COMMA, Literal: ",", Pos: pos}
	case ';':
		l.advance()
		return token.Token{Type: token.SEMICOLON, Literal: ";", Pos: pos}
	case '(':
		l.advance()
		return token.Token{Type: token.LPAREN, Literal: "(", Pos: pos}
	case ')':
		l.advance()
		return token.Token{Type: token.RPAREN, Literal: ")", Pos: pos}
	case '.':
		if isDigit(l.peekByteAt(1)) {
			return l.readNumber(pos)
		}
		l.advance()
		return token.Token{Type: token.DOT, Literal: ".", Pos: pos}
	case '?':
		l.advance()
		return token.Token{Type: token.PLACEHOLDER, Literal: "?", Pos: pos}
	case '=':
		l.advance()
		return token.Token{Type: token.EQ, Literal: "=", Pos: pos}
	case '!':
		l.advance()
		if l.peekByte() == '=' {
			l.advance()
			return token.Token{Type: token.NEQ, Literal: "!=", Pos: pos}
		}
		return token.Token{Type: token.ILLEGAL, Literal: "!", Pos: pos}
	case '<':
		l.advance()
		switch l.peekByte() {
		case '>':
			l.advance()
			return token.Token{Type: token.NEQ, Literal: "<>", Pos: pos}
		case '=':
			l.advance()
			return token.Token{Type: token.LTE, Literal: "<=", Pos: pos}
		}
		return token.Token{Type: token.LT, Literal: "<", Pos: pos}
	case '>':
		l.advance()
		if l.peekByte() == '=' {
			l.advance()
			return token.Token{Type: token.GTE, Literal: ">=", Pos: pos}
		}
		return token.Token{Type: token.GT, Literal: ">", Pos: pos}
	case '|':
		l.advance()
		if l.peekByte() == '|' {
			l.advance()
			return token.Token{Type: token.CONCAT, Literal: "||", Pos: pos}
		}
		return token.Token{Type: token.ILLEGAL, Literal: "|", Pos: pos}
	}

	l.advance()
	return token.Token{Type: token.ILLEGAL, Literal: string(c), Pos: pos}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.peekByte() {
		case ' ', '\t', '\r', '\n':
			l.advance()
			continue
		case '-':
			if l.peekByteAt(1) == '-' {
				for l.pos < len(l.input) && l.peekByte() != '\n' {
					l.advance()
				}
				continue
			}
		case '/':
			if l.peekByteAt(1) == '*' {
				l.advance()
				l.advance()
				for l.pos < len(l.input) && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
					l.advance()
				}
				if l.pos < len(l.input) {
					l.advance()
					l.advance()
				}
				continue
			}
		}
		return
	}
}

func (l *Lexer) readIdent(pos token.Position) token.Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.peekByte()) {
		l.advance()
	}
	lit := l.input[start:l.pos]
	typ := token.LookupIdent(strings.ToUpper(lit))
	return token.Token{Type: typ, Literal: lit, Pos: pos}
}

func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.pos
	isFloat := false
	for l.pos < len(l.input) && isDigit(l.peekByte()) {
		l.advance()
	}
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		isFloat = true
		l.advance()
		for l.pos < len(l.input) && isDigit(l.peekByte()) {
			l.advance()
		}
	}
	typ := token.INT
	if isFloat {
		typ = token.FLOAT
	}
	return token.Token{Type: typ, Literal: l.input[start:l.pos], Pos: pos}
}

func (l *Lexer) readString(pos token.Position) token.Token {
	l.advance() // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		c := l.peekByte()
		if c == '\'' {
			if l.peekByteAt(1) == '\'' {
				sb.WriteByte('\'')
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			break
		}
		sb.WriteByte(c)
		l.advance()
	}
	return token.Token{Type: token.STRING, Literal: sb.String(), Pos: pos}
}

func (l *Lexer) readQuotedIdent(pos token.Position) token.Token {
	l.advance() // opening quote
	start := l.pos
	for l.pos < len(l.input) && l.peekByte() != '"' {
		l.advance()
	}
	lit := l.input[start:l.pos]
	if l.pos < len(l.input) {
		l.advance()
	}
	return token.Token{Type: token.IDENT, Literal: lit, Pos: pos}
}
