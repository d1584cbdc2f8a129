// Package highlight provides incremental, lexical syntax highlighting.
//
// A language is an ordered list of rules. Each row is lexed on its own,
// starting from the carry state left by the row above, so an edit only
// re-lexes rows whose text or incoming state changed.
package highlight

import "strings"

// TokenType represents the semantic type of a token.
type TokenType uint16

// Token types for syntax highlighting.
// Names follow TextMate scope conventions at a high level.
const (
	TokenNone TokenType = iota

	TokenComment
	TokenCommentDoc

	TokenString
	TokenStringEscape

	TokenNumber

	TokenKeyword
	TokenKeywordControl
	TokenKeywordDeclaration

	TokenOperator
	TokenPunctuation

	TokenConstant
	TokenConstantLanguage // true, false, nil, null

	TokenFunction
	TokenFunctionBuiltin

	TokenTypeName
	TokenTypeBuiltin

	TokenMeta // preprocessor lines, decorators, attributes

	TokenMarkupHeading
	TokenMarkupBold
	TokenMarkupItalic
	TokenMarkupCode
	TokenMarkupLink
	TokenMarkupList
	TokenMarkupQuote

	// Sentinel for iteration
	tokenTypeCount
)

// tokenTypeNames maps token types to their scope names.
var tokenTypeNames = [...]string{
	TokenNone: "none",

	TokenComment:    "comment",
	TokenCommentDoc: "comment.documentation",

	TokenString:       "string",
	TokenStringEscape: "string.escape",

	TokenNumber: "number",

	TokenKeyword:            "keyword",
	TokenKeywordControl:     "keyword.control",
	TokenKeywordDeclaration: "keyword.declaration",

	TokenOperator:    "operator",
	TokenPunctuation: "punctuation",

	TokenConstant:         "constant",
	TokenConstantLanguage: "constant.language",

	TokenFunction:        "function",
	TokenFunctionBuiltin: "function.builtin",

	TokenTypeName:    "type",
	TokenTypeBuiltin: "type.builtin",

	TokenMeta: "meta",

	TokenMarkupHeading: "markup.heading",
	TokenMarkupBold:    "markup.bold",
	TokenMarkupItalic:  "markup.italic",
	TokenMarkupCode:    "markup.code",
	TokenMarkupLink:    "markup.link",
	TokenMarkupList:    "markup.list",
	TokenMarkupQuote:   "markup.quote",
}

// String returns the scope name of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Parent returns the enclosing token type ("keyword" for
// "keyword.control"), or TokenNone for top-level types.
func (t TokenType) Parent() TokenType {
	name := t.String()
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return TokenNone
	}
	return TokenTypeFromString(name[:i])
}

// TokenTypeFromString converts a scope string to a TokenType. Unknown
// leaf segments fall back to their parent scope ("keyword.other" gives
// TokenKeyword).
func TokenTypeFromString(scope string) TokenType {
	for scope != "" {
		if t, ok := scopeToToken[scope]; ok {
			return t
		}
		i := strings.LastIndexByte(scope, '.')
		if i < 0 {
			break
		}
		scope = scope[:i]
	}
	return TokenNone
}

var scopeToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		if name != "" {
			m[name] = TokenType(i)
		}
	}
	return m
}()

// Span is a highlighted run of one row, in grapheme columns.
type Span struct {
	Start int // inclusive
	End   int // exclusive
	Type  TokenType
}

// State is the lexer state carried from the end of one row into the next.
// StateNormal means no region is open; any other value names the open
// multi-row region.
type State uint16

// StateNormal is the carry state outside any region.
const StateNormal State = 0
