package jsonfix

import "fmt"

// Kind identifies the category of a single repair. The set is closed:
// every repair the engine can perform maps to exactly one of these.
type Kind string

const (
	// KindTrailingComma is a comma removed before a closing bracket.
	KindTrailingComma Kind = "trailing-comma"

	// KindLineComment is a removed // comment.
	KindLineComment Kind = "line-comment"

	// KindBlockComment is a removed /* */ comment.
	KindBlockComment Kind = "block-comment"

	// KindHashComment is a removed # comment.
	KindHashComment Kind = "hash-comment"

	// KindSmartQuote is a typographic quote replaced with its ASCII form.
	KindSmartQuote Kind = "smart-quote"

	// KindSingleQuoteString is a single-quoted string rewritten with
	// double quotes.
	KindSingleQuoteString Kind = "single-quote-string"

	// KindUnquotedKey is an object key that had quotes added around it.
	KindUnquotedKey Kind = "unquoted-key"

	// KindPythonLiteral is a True, False, or None literal converted to
	// its JSON spelling.
	KindPythonLiteral Kind = "python-literal"

	// KindUnescapedNewline is a literal newline inside a string replaced
	// with its escape sequence.
	KindUnescapedNewline Kind = "unescaped-newline"

	// KindMissingBracket is a closing bracket or quote appended at end
	// of input.
	KindMissingBracket Kind = "missing-bracket"

	// KindTruncationMarker is a removed ellipsis truncation marker.
	KindTruncationMarker Kind = "truncation-marker"
)

// Record describes one modification the engine made to the input. All
// coordinates refer to the original input text, before any repair was
// applied: Position is a 0-based rune offset, Line and Column are 1-based.
type Record struct {
	Kind        Kind   `json:"kind"`
	Position    int    `json:"position"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Message     string `json:"message"`
}

// String returns the repair's message with its location, suitable for
// diagnostics.
func (r Record) String() string {
	return fmt.Sprintf("line %d, column %d: %s", r.Line, r.Column, r.Message)
}

// previewLimit caps how much of a removed span is echoed in messages.
const previewLimit = 30

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewLimit {
		return s
	}
	return string(runes[:previewLimit]) + "..."
}

// repairMessage renders the deterministic message for a repair. Messages
// are a pure function of the kind and the affected text.
func repairMessage(kind Kind, original, replacement string) string {
	switch kind {
	case KindTrailingComma:
		return "Removed trailing comma"
	case KindLineComment:
		return fmt.Sprintf("Removed single-line comment '%s'", preview(original))
	case KindBlockComment:
		return fmt.Sprintf("Removed multi-line comment '%s'", preview(original))
	case KindHashComment:
		return fmt.Sprintf("Removed hash comment '%s'", preview(original))
	case KindSmartQuote:
		return fmt.Sprintf("Replaced smart quote '%s' with '%s'", original, replacement)
	case KindSingleQuoteString:
		return fmt.Sprintf("Converted single-quoted string '%s' to double quotes", preview(original))
	case KindUnquotedKey:
		return fmt.Sprintf("Added quotes around unquoted key '%s'", original)
	case KindPythonLiteral:
		return fmt.Sprintf("Converted Python literal '%s' to JSON '%s'", original, replacement)
	case KindUnescapedNewline:
		return "Escaped literal newline in string"
	case KindMissingBracket:
		return fmt.Sprintf("Added missing closing bracket '%s'", replacement)
	case KindTruncationMarker:
		return fmt.Sprintf("Removed truncation marker '%s'", original)
	}
	return string(kind)
}

// newRecord builds a fully populated record for a modification at the
// given original-input coordinates.
func newRecord(kind Kind, pos, line, col int, original, replacement string) Record {
	return Record{
		Kind:        kind,
		Position:    pos,
		Line:        line,
		Column:      col,
		Original:    original,
		Replacement: replacement,
		Message:     repairMessage(kind, original, replacement),
	}
}
