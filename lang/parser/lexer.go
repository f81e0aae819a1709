// Tc
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/purpleidea/tc/util"
)

// tokenKind is the kind of a lexed token.
type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenInt
	tokenStr
	tokenTrue
	tokenFalse
	tokenLet
	tokenIn
	tokenLambda // \
	tokenDot    // .
	tokenEquals // =
	tokenOpen   // (
	tokenClose  // )
)

// String returns a name for the token kind, for use in error messages.
func (obj tokenKind) String() string {
	switch obj {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenInt:
		return "integer"
	case tokenStr:
		return "string"
	case tokenTrue:
		return "true"
	case tokenFalse:
		return "false"
	case tokenLet:
		return "let"
	case tokenIn:
		return "in"
	case tokenLambda:
		return `\`
	case tokenDot:
		return "."
	case tokenEquals:
		return "="
	case tokenOpen:
		return "("
	case tokenClose:
		return ")"
	}
	return "unknown"
}

var keywords = map[string]tokenKind{
	"let":   tokenLet,
	"in":    tokenIn,
	"true":  tokenTrue,
	"false": tokenFalse,
}

var punctuation = map[byte]tokenKind{
	'\\': tokenLambda,
	'.':  tokenDot,
	'=':  tokenEquals,
	'(':  tokenOpen,
	')':  tokenClose,
}

// token is a single lexeme. For strings, str is already unquoted, and for ints
// the value is parsed into num.
type token struct {
	kind tokenKind
	pos  int
	text string // as found in the input
	str  string
	num  int64
}

// lexer turns the input into tokens, one at a time.
type lexer struct {
	input string
	pos   int
}

// next returns the next token, or an error if the input can't be lexed.
func (obj *lexer) next() (*token, error) {
	obj.skipSpace()
	start := obj.pos
	if obj.pos >= len(obj.input) {
		return &token{kind: tokenEOF, pos: start}, nil
	}

	c := obj.input[obj.pos]
	if kind, exists := punctuation[c]; exists {
		obj.pos++
		return &token{kind: kind, pos: start, text: string(c)}, nil
	}

	if c == '"' {
		return obj.lexStr()
	}
	if c >= '0' && c <= '9' {
		return obj.lexInt()
	}

	r, size := utf8.DecodeRuneInString(obj.input[obj.pos:])
	if r == '\r' {
		return nil, obj.errorf(ErrLexerUnrecognizedCR, start, "\\r")
	}
	if r != '_' && !unicode.IsLetter(r) {
		return nil, obj.errorf(ErrLexerUnrecognized, start, string(r))
	}
	obj.pos += size
	for obj.pos < len(obj.input) {
		r, size := utf8.DecodeRuneInString(obj.input[obj.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		obj.pos += size
	}
	text := obj.input[start:obj.pos]
	kind, exists := keywords[text]
	if !exists {
		kind = tokenIdent
	}
	return &token{kind: kind, pos: start, text: text}, nil
}

// skipSpace moves past whitespace and `#` comments which run to end of line.
func (obj *lexer) skipSpace() {
	for obj.pos < len(obj.input) {
		switch c := obj.input[obj.pos]; {
		case c == ' ' || c == '\t' || c == '\n':
			obj.pos++
		case c == '#':
			for obj.pos < len(obj.input) && obj.input[obj.pos] != '\n' {
				obj.pos++
			}
		default:
			return
		}
	}
}

func (obj *lexer) lexInt() (*token, error) {
	start := obj.pos
	for obj.pos < len(obj.input) && obj.input[obj.pos] >= '0' && obj.input[obj.pos] <= '9' {
		obj.pos++
	}
	text := obj.input[start:obj.pos]
	num, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, obj.errorf(ErrLexerIntegerOverflow, start, text)
	}
	return &token{kind: tokenInt, pos: start, text: text, num: num}, nil
}

func (obj *lexer) lexStr() (*token, error) {
	start := obj.pos
	obj.pos++ // opening quote
	for {
		if obj.pos >= len(obj.input) || obj.input[obj.pos] == '\n' {
			return nil, obj.errorf(ErrLexerStringUnterminated, start, obj.input[start:obj.pos])
		}
		c := obj.input[obj.pos]
		obj.pos++
		if c == '\\' && obj.pos < len(obj.input) {
			obj.pos++ // skip whatever is escaped, Unquote checks it
			continue
		}
		if c == '"' {
			break
		}
	}
	text := obj.input[start:obj.pos]
	str, err := strconv.Unquote(text)
	if err != nil {
		return nil, obj.errorf(ErrLexerStringBadEscaping, start, text)
	}
	return &token{kind: tokenStr, pos: start, text: text, str: str}, nil
}

// errorf builds a positioned error for the input at the given offset.
func (obj *lexer) errorf(e util.Error, pos int, str string) *LexParseErr {
	row, col := position(obj.input, pos)
	return &LexParseErr{
		Err:    e,
		Str:    str,
		Offset: pos,
		Row:    row,
		Col:    col,
	}
}

// position converts a byte offset into a zero-indexed row and column.
func position(input string, offset int) (int, int) {
	row, col := 0, 0
	for i, r := range input {
		if i >= offset {
			break
		}
		if r == '\n' {
			row++
			col = 0
			continue
		}
		col++
	}
	return row, col
}
