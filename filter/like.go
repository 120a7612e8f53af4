package filter

import "unicode/utf8"

// patternTokenKind distinguishes one token of a compiled LIKE pattern.
type patternTokenKind int

const (
	tokenLiteral patternTokenKind = iota
	tokenWildcardSingle
	tokenWildcardMulti
)

type patternToken struct {
	kind    patternTokenKind
	literal string
}

// LikePattern is a compiled SQL LIKE pattern: a flat token sequence of
// literal runs, single-character wildcards ('_'), and multi-character
// wildcards ('%'). Grounded verbatim on the reference query/filter/like.rs.
type LikePattern struct {
	tokens []patternToken
}

// CompileLike parses pattern into a LikePattern. '\' escapes the next
// character, including itself, turning it into literal text rather than
// a wildcard.
func CompileLike(pattern string) (LikePattern, error) {
	var tokens []patternToken
	var literal []byte
	escape := false

	flush := func() {
		if len(literal) > 0 {
			tokens = append(tokens, patternToken{kind: tokenLiteral, literal: string(literal)})
			literal = nil
		}
	}

	for _, r := range pattern {
		switch {
		case r == '_' && !escape:
			flush()
			tokens = append(tokens, patternToken{kind: tokenWildcardSingle})
		case r == '%' && !escape:
			flush()
			tokens = append(tokens, patternToken{kind: tokenWildcardMulti})
		case r == '\\' && !escape:
			escape = true
			continue
		default:
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], r)
			literal = append(literal, buf[:n]...)
		}
		escape = false
	}
	flush()
	return LikePattern{tokens: tokens}, nil
}

// Match reports whether input satisfies the pattern, using the classical
// two-pointer algorithm with a single backtrack point for '%':
// O(n·m) worst case, O(1) extra space. '_' consumes exactly one
// Unicode scalar; literals are matched by byte-prefix.
func (p LikePattern) Match(input string) bool {
	tokens := p.tokens
	ti, ii := 0, 0
	starTI := -1
	starII := 0

	for ii < len(input) {
		matched := false
		if ti < len(tokens) {
			switch tokens[ti].kind {
			case tokenLiteral:
				lit := tokens[ti].literal
				if len(input)-ii >= len(lit) && input[ii:ii+len(lit)] == lit {
					ii += len(lit)
					ti++
					matched = true
				}
			case tokenWildcardSingle:
				_, size := utf8.DecodeRuneInString(input[ii:])
				ii += size
				ti++
				matched = true
			case tokenWildcardMulti:
				starTI = ti + 1
				starII = ii
				ti++
				matched = true
			}
		}
		if !matched {
			if starTI >= 0 {
				_, size := utf8.DecodeRuneInString(input[starII:])
				if size == 0 {
					return false
				}
				starII += size
				ii = starII
				ti = starTI
			} else {
				return false
			}
		}
	}

	for ti < len(tokens) && tokens[ti].kind == tokenWildcardMulti {
		ti++
	}
	return ti == len(tokens)
}
