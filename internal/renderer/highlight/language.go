package highlight

import (
	"fmt"
	"time"
	"unicode"

	"github.com/dlclark/regexp2"
	"github.com/rivo/uniseg"
)

// patternTimeout bounds a single regex attempt so that a pathological rule
// cannot stall the UI goroutine.
const patternTimeout = 50 * time.Millisecond

type ruleKind uint8

const (
	ruleRegion ruleKind = iota
	rulePattern
	ruleKeywords
)

// Rule is one entry of a language's ordered rule list.
type Rule struct {
	kind ruleKind
	typ  TokenType

	// regions
	start, end string
	escape     rune
	multiline  bool

	// patterns
	expr string

	// keywords
	words map[string]struct{}
}

// Language is an ordered rule list plus the file extensions it claims.
// At each position the first matching rule wins.
type Language struct {
	Name       string
	Extensions []string
	rules      []Rule
}

// NewLanguage creates an empty language definition.
func NewLanguage(name string, extensions ...string) *Language {
	return &Language{Name: name, Extensions: extensions}
}

// Region adds a delimited region that closes on the same row, such as a
// string literal. An empty end runs to the end of the row (line comments).
// A non-zero escape skips the rune that follows it.
func (l *Language) Region(start, end string, escape rune, typ TokenType) *Language {
	l.rules = append(l.rules, Rule{kind: ruleRegion, typ: typ, start: start, end: end, escape: escape})
	return l
}

// MultilineRegion adds a region that may span rows. An unclosed region
// becomes the row's carry-out state.
func (l *Language) MultilineRegion(start, end string, escape rune, typ TokenType) *Language {
	l.rules = append(l.rules, Rule{kind: ruleRegion, typ: typ, start: start, end: end, escape: escape, multiline: true})
	return l
}

// Pattern adds a regular expression rule. The expression is anchored at
// the current position.
func (l *Language) Pattern(expr string, typ TokenType) *Language {
	l.rules = append(l.rules, Rule{kind: rulePattern, typ: typ, expr: expr})
	return l
}

// Keywords adds a keyword set. Keywords match whole identifiers only.
func (l *Language) Keywords(typ TokenType, words ...string) *Language {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	l.rules = append(l.rules, Rule{kind: ruleKeywords, typ: typ, words: set})
	return l
}

// HighlightRuleError reports a rule that failed to compile.
type HighlightRuleError struct {
	Language string
	Rule     int
	Expr     string
	Err      error
}

func (e *HighlightRuleError) Error() string {
	return fmt.Sprintf("highlight: %s rule %d (%q): %v", e.Language, e.Rule, e.Expr, e.Err)
}

func (e *HighlightRuleError) Unwrap() error {
	return e.Err
}

// compiledRule pairs a rule with its compiled pattern and rune delimiters.
type compiledRule struct {
	Rule
	re         *regexp2.Regexp
	startRunes []rune
	endRunes   []rune
}

// Lexer is a compiled language. It is immutable and safe for concurrent
// use by the foreground and the warm-up worker.
type Lexer struct {
	name  string
	rules []compiledRule
}

// Compile checks and compiles every rule of the language.
func (l *Language) Compile() (*Lexer, error) {
	lx := &Lexer{name: l.Name, rules: make([]compiledRule, len(l.rules))}
	for i, r := range l.rules {
		cr := compiledRule{Rule: r, startRunes: []rune(r.start), endRunes: []rune(r.end)}
		switch r.kind {
		case rulePattern:
			re, err := regexp2.Compile(`\G(?:`+r.expr+`)`, regexp2.None)
			if err != nil {
				return nil, &HighlightRuleError{Language: l.Name, Rule: i, Expr: r.expr, Err: err}
			}
			re.MatchTimeout = patternTimeout
			cr.re = re
		case ruleRegion:
			if r.start == "" {
				return nil, &HighlightRuleError{Language: l.Name, Rule: i, Expr: r.start, Err: fmt.Errorf("empty region start")}
			}
			if r.multiline && r.end == "" {
				return nil, &HighlightRuleError{Language: l.Name, Rule: i, Expr: r.start, Err: fmt.Errorf("multiline region needs an end delimiter")}
			}
		}
		lx.rules[i] = cr
	}
	return lx, nil
}

// Name returns the language name.
func (lx *Lexer) Name() string {
	if lx == nil {
		return ""
	}
	return lx.name
}

// Lex highlights one row starting in state in. It returns the spans in
// grapheme columns and the carry-out state.
func (lx *Lexer) Lex(line string, in State) ([]Span, State) {
	if lx == nil {
		return nil, StateNormal
	}
	runes := []rune(line)
	var spans []Span
	emit := func(start, end int, typ TokenType) {
		if end > start && typ != TokenNone {
			spans = append(spans, Span{Start: start, End: end, Type: typ})
		}
	}

	pos := 0
	if in != StateNormal && int(in) <= len(lx.rules) {
		r := &lx.rules[in-1]
		end, closed := r.scanEnd(runes, 0)
		emit(0, end, r.typ)
		if !closed {
			return toColumns(line, runes, spans), in
		}
		pos = end
	}

	for pos < len(runes) {
		matched := false
		for i := range lx.rules {
			r := &lx.rules[i]
			end, ok := r.match(runes, pos)
			if !ok {
				continue
			}
			matched = true
			if r.kind == ruleRegion {
				stop, closed := r.scanEnd(runes, pos+len(r.startRunes))
				emit(pos, stop, r.typ)
				if !closed && r.multiline {
					return toColumns(line, runes, spans), State(i + 1)
				}
				pos = stop
				break
			}
			emit(pos, end, r.typ)
			pos = end
			break
		}
		if matched {
			continue
		}
		// Skip whole identifiers so that patterns and keywords never
		// match in the middle of a word.
		if isIdent(runes[pos]) {
			for pos < len(runes) && isIdent(runes[pos]) {
				pos++
			}
			continue
		}
		pos++
	}
	return toColumns(line, runes, spans), StateNormal
}

// match reports whether the rule matches at pos and where the match ends.
// Regions report only that they open; the caller scans for the close.
func (r *compiledRule) match(runes []rune, pos int) (int, bool) {
	switch r.kind {
	case ruleRegion:
		if hasPrefix(runes[pos:], r.startRunes) {
			return pos + len(r.startRunes), true
		}
	case rulePattern:
		m, err := r.re.FindRunesMatchStartingAt(runes, pos)
		if err != nil || m == nil || m.Index != pos || m.Length == 0 {
			return 0, false
		}
		return pos + m.Length, true
	case ruleKeywords:
		if pos > 0 && isIdent(runes[pos-1]) {
			return 0, false
		}
		end := pos
		for end < len(runes) && isIdent(runes[end]) {
			end++
		}
		if end == pos {
			return 0, false
		}
		if _, ok := r.words[string(runes[pos:end])]; ok {
			return end, true
		}
	}
	return 0, false
}

// scanEnd looks for the region's closing delimiter from pos. It returns the
// position after the delimiter, or the row length when the region stays
// open.
func (r *compiledRule) scanEnd(runes []rune, pos int) (int, bool) {
	if len(r.endRunes) == 0 {
		return len(runes), false
	}
	for pos < len(runes) {
		if r.escape != 0 && runes[pos] == r.escape {
			pos += 2
			continue
		}
		if hasPrefix(runes[pos:], r.endRunes) {
			return pos + len(r.endRunes), true
		}
		pos++
	}
	return len(runes), false
}

func hasPrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

func isIdent(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// toColumns converts rune-indexed spans to grapheme columns. A span that
// ends inside a grapheme cluster is widened to cover the whole cluster.
func toColumns(line string, runes []rune, spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	cols := make([]int, len(runes)+1)
	boundary := make([]bool, len(runes)+1)
	ri, col := 0, 0
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		boundary[ri] = true
		for range gr.Runes() {
			cols[ri] = col
			ri++
		}
		col++
	}
	cols[len(runes)] = col
	boundary[len(runes)] = true

	out := spans[:0]
	for _, s := range spans {
		start := cols[s.Start]
		end := cols[s.End]
		if !boundary[s.End] {
			end++
		}
		if end > start {
			out = append(out, Span{Start: start, End: end, Type: s.Type})
		}
	}
	return out
}
