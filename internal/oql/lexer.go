package oql

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind categorizes a lexical token.
type TokenKind int

const (
	TokenEOF      TokenKind = iota
	TokenIdent              // identifier or keyword, including dotted paths (u.roles, org.acme.User$Foo)
	TokenNumber             // numeric literal (123, 3.14)
	TokenString             // string literal ('hello')
	TokenParam              // bind parameter (?, ?1, :name, $1)
	TokenStar               // asterisk (*)
	TokenComma              // ,
	TokenLParen             // (
	TokenRParen             // )
	TokenOperator           // =, <, >, <=, >=, <>, !=, +, -, /, ., ||
)

// Token is a single lexical unit with its byte span in the input.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int // byte offset of the first byte
	End   int // byte offset one past the last byte
}

// Is reports whether the token is an identifier matching the given keyword,
// ignoring case. Keywords are not reserved: the caller decides from context
// whether "user" is the USER keyword or an entity name.
func (t Token) Is(keyword string) bool {
	return t.Kind == TokenIdent && strings.EqualFold(t.Text, keyword)
}

// Lexer scans an input string into tokens. It is stateful: each Next call
// advances past one token.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a lexer positioned at the start of input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token, skipping whitespace and comments.
// Unknown characters are returned as single-byte operator tokens so the
// parser can report them instead of silently stopping.
func (l *Lexer) Next() Token {
	l.skipSpaceAndComments()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Start: l.pos, End: l.pos}
	}

	start := l.pos
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	// Identifier: entity names, aliases and paths. Dots, '$' and '_' are
	// part of the identifier so qualified names lex as one token.
	if unicode.IsLetter(r) || r == '_' {
		l.pos += size
		for l.pos < len(l.input) {
			r, size = utf8.DecodeRuneInString(l.input[l.pos:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' || r == '.' {
				l.pos += size
				continue
			}
			break
		}
		return Token{Kind: TokenIdent, Text: l.input[start:l.pos], Start: start, End: l.pos}
	}

	if unicode.IsDigit(r) {
		l.pos += size
		for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
			l.pos++
		}
		if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigitByte(l.input[l.pos+1]) {
			l.pos++
			for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
				l.pos++
			}
		}
		return Token{Kind: TokenNumber, Text: l.input[start:l.pos], Start: start, End: l.pos}
	}

	switch r {
	case '\'':
		// String literal, '' escapes a quote.
		l.pos++
		for l.pos < len(l.input) {
			if l.input[l.pos] == '\'' {
				if l.pos+1 < len(l.input) && l.input[l.pos+1] == '\'' {
					l.pos += 2
					continue
				}
				l.pos++
				break
			}
			l.pos++
		}
		return Token{Kind: TokenString, Text: l.input[start:l.pos], Start: start, End: l.pos}
	case '?':
		// Positional bind parameter: ? or ?1.
		l.pos++
		for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
			l.pos++
		}
		return Token{Kind: TokenParam, Text: l.input[start:l.pos], Start: start, End: l.pos}
	case ':':
		// Named bind parameter: :name.
		l.pos++
		for l.pos < len(l.input) {
			r, size = utf8.DecodeRuneInString(l.input[l.pos:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				l.pos += size
				continue
			}
			break
		}
		return Token{Kind: TokenParam, Text: l.input[start:l.pos], Start: start, End: l.pos}
	case '$':
		// Provider-native positional parameter: $1.
		l.pos++
		for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
			l.pos++
		}
		return Token{Kind: TokenParam, Text: l.input[start:l.pos], Start: start, End: l.pos}
	case '*':
		l.pos++
		return Token{Kind: TokenStar, Text: "*", Start: start, End: l.pos}
	case ',':
		l.pos++
		return Token{Kind: TokenComma, Text: ",", Start: start, End: l.pos}
	case '(':
		l.pos++
		return Token{Kind: TokenLParen, Text: "(", Start: start, End: l.pos}
	case ')':
		l.pos++
		return Token{Kind: TokenRParen, Text: ")", Start: start, End: l.pos}
	}

	// Multi-byte comparison operators first.
	if r == '<' || r == '>' || r == '!' {
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '=' || (r == '<' && l.input[l.pos] == '>')) {
			l.pos++
		}
		return Token{Kind: TokenOperator, Text: l.input[start:l.pos], Start: start, End: l.pos}
	}
	if r == '|' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '|' {
		l.pos += 2
		return Token{Kind: TokenOperator, Text: "||", Start: start, End: l.pos}
	}

	l.pos += size
	return Token{Kind: TokenOperator, Text: l.input[start:l.pos], Start: start, End: l.pos}
}

// Tokens scans the whole input.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == TokenEOF {
			return toks
		}
	}
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		switch {
		case unicode.IsSpace(r):
			l.pos += size
		case strings.HasPrefix(l.input[l.pos:], "--"):
			if i := strings.IndexByte(l.input[l.pos:], '\n'); i >= 0 {
				l.pos += i + 1
			} else {
				l.pos = len(l.input)
			}
		case strings.HasPrefix(l.input[l.pos:], "/*"):
			if i := strings.Index(l.input[l.pos+2:], "*/"); i >= 0 {
				l.pos += i + 4
			} else {
				l.pos = len(l.input)
			}
		default:
			return
		}
	}
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
