package order

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota + 1
	kindCode
	sizeCode
	quantityPrefixCode
	quantityCode
	semicolonCode
)

// Token definitions
var (
	whitespaceToken     = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	kindToken           = parsly.NewToken(kindCode, "Kind", &wordMatcher{})
	sizeToken           = parsly.NewToken(sizeCode, "Size", &sizeMatcher{})
	quantityPrefixToken = parsly.NewToken(quantityPrefixCode, "x", matcher.NewByte('x'))
	quantityToken       = parsly.NewToken(quantityCode, "Quantity", &quantityMatcher{})
	semicolonToken      = parsly.NewToken(semicolonCode, ";", matcher.NewByte(';'))
)

// wordMatcher matches a run of ASCII letters
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if !isLetter(input[i]) {
			break
		}
		matched++
	}
	return matched
}

var sizeLabels = []string{"XXL", "XL", "S", "M", "L"}

// sizeMatcher matches an upper case size label not followed by a letter
type sizeMatcher struct{}

func (m *sizeMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	for _, label := range sizeLabels {
		end := pos + len(label)
		if end > cursor.InputSize || string(input[pos:end]) != label {
			continue
		}
		if end < cursor.InputSize && isLetter(input[end]) {
			return 0
		}
		return len(label)
	}
	return 0
}

// quantityMatcher matches a positive integer without leading zero
type quantityMatcher struct{}

func (m *quantityMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	if pos >= cursor.InputSize || input[pos] < '1' || input[pos] > '9' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < cursor.InputSize; i++ {
		if !isDigit(input[i]) {
			break
		}
		matched++
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
