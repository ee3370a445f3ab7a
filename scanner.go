package jsonfix

import (
	"github.com/charmbracelet/x/exp/slice"
)

// Typographic quote characters normalized to ASCII. Both tables cover the
// forms commonly produced by word processors, chat clients, and models
// trained on their output.
var smartDoubleQuotes = map[rune]rune{
	'“': '"', // left double quotation mark
	'”': '"', // right double quotation mark
	'„': '"', // double low-9 quotation mark
	'‟': '"', // double high-reversed-9 quotation mark
	'«': '"', // left-pointing double angle quotation mark
	'»': '"', // right-pointing double angle quotation mark
	'″': '"', // double prime
	'〝': '"', // reversed double prime quotation mark
	'〞': '"', // double prime quotation mark
}

var smartSingleQuotes = map[rune]rune{
	'‘': '\'', // left single quotation mark
	'’': '\'', // right single quotation mark
	'‚': '\'', // single low-9 quotation mark
	'‛': '\'', // single high-reversed-9 quotation mark
	'‹': '\'', // single left-pointing angle quotation mark
	'›': '\'', // single right-pointing angle quotation mark
	'′': '\'', // prime
	'`': '\'', // grave accent
	'´': '\'', // acute accent
}

var pythonLiterals = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// isWordChar is the boundary test for literal conversion. Unlike
// isIdentPart it excludes '$' so that matching stays token-exact in the
// same sense a word boundary is.
func isWordChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_'
}

// scanState is the whole engine: one value per call, one forward pass
// over the input. It tracks the current position (rune offset plus
// 1-based line and column against the original text), the lexical mode,
// the open bracket stack, the output buffer, and the repair log.
type scanState struct {
	cfg  Config
	src  []rune
	pos  int
	line int
	col  int

	out   []rune
	log   []Record
	stack []rune

	// lastSig is the most recent significant rune handled in plain mode.
	// Whitespace, comments, and removed spans do not update it; it is
	// what key detection means by "directly after { or ,".
	lastSig rune

	// skipMarkerAt is the offset of an ellipsis already claimed by a
	// comma-merge repair, to be consumed silently when the scan reaches
	// it. -1 when unset.
	skipMarkerAt int

	// End-of-input string recovery state, set when the scan runs out of
	// input inside a double-quoted string.
	inString      bool
	escapePending bool
}

func newScanState(input string, cfg Config) *scanState {
	src := []rune(input)
	if len(src) > 0 && src[0] == '\ufeff' {
		src = src[1:]
	}
	return &scanState{
		cfg:          cfg,
		src:          src,
		line:         1,
		col:          1,
		out:          make([]rune, 0, len(src)+8),
		skipMarkerAt: -1,
	}
}

// advance consumes the current rune, keeping line and column in step.
func (s *scanState) advance() {
	if s.src[s.pos] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.pos++
}

func (s *scanState) emit(c rune) {
	s.out = append(s.out, c)
}

func (s *scanState) peek(n int) rune {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

// record logs a repair anchored at the current position.
func (s *scanState) record(kind Kind, original, replacement string) {
	s.log = append(s.log, newRecord(kind, s.pos, s.line, s.col, original, replacement))
}

// normalizeQuote maps a typographic quote to its ASCII form, logging the
// replacement. Every consumed character outside comments goes through
// here first, so later classification always sees the normalized rune.
func (s *scanState) normalizeQuote(c rune) rune {
	if !s.cfg.NormalizeQuotes {
		return c
	}
	if r, ok := smartDoubleQuotes[c]; ok {
		s.record(KindSmartQuote, string(c), string(r))
		return r
	}
	if r, ok := smartSingleQuotes[c]; ok {
		s.record(KindSmartQuote, string(c), string(r))
		return r
	}
	return c
}

// run is the single coordinated pass.
func (s *scanState) run() {
	for s.pos < len(s.src) {
		if s.pos == s.skipMarkerAt {
			s.skipMarkerAt = -1
			for n := s.markerLen(s.pos); n > 0; n-- {
				s.advance()
			}
			continue
		}
		c := s.src[s.pos]
		if isSpace(c) {
			s.emit(c)
			s.advance()
			continue
		}
		c = s.normalizeQuote(c)
		switch {
		case c == '/' && s.cfg.Comments && s.peek(1) == '/':
			s.scanLineComment(KindLineComment)
		case c == '/' && s.cfg.Comments && s.peek(1) == '*':
			s.scanBlockComment()
		case c == '#' && s.cfg.Comments:
			s.scanLineComment(KindHashComment)
		case c == '"':
			s.lastSig = '"'
			s.emit('"')
			s.advance()
			s.scanString()
		case c == '\'' && s.cfg.SingleQuotes:
			s.scanSingleQuoted()
		case c == '{' || c == '[':
			s.stack = append(s.stack, c)
			s.lastSig = c
			s.emit(c)
			s.advance()
		case c == '}' || c == ']':
			s.popBracket(c)
			s.lastSig = c
			s.emit(c)
			s.advance()
		case c == ',':
			s.handleComma()
		case s.cfg.Ellipsis && s.markerLen(s.pos) > 0:
			s.handleMarker()
		case isIdentStart(c):
			s.scanIdentifier()
		default:
			s.lastSig = c
			s.emit(c)
			s.advance()
		}
	}
	s.finish()
}

// popBracket pops the stack when the closer matches the innermost opener.
// Mismatched or surplus closers pass through untouched; the strict parse
// downstream reports them.
func (s *scanState) popBracket(c rune) {
	if len(s.stack) == 0 {
		return
	}
	top := s.stack[len(s.stack)-1]
	if (c == '}' && top == '{') || (c == ']' && top == '[') {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// nextSignificant returns the offset of the next rune that is neither
// whitespace nor, when comments are enabled, part of a comment. Returns
// len(src) when nothing significant remains. The scan itself is pure:
// nothing is consumed or logged.
func (s *scanState) nextSignificant(i int) int {
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case isSpace(c):
			i++
		case s.cfg.Comments && c == '/' && i+1 < len(s.src) && s.src[i+1] == '/':
			for i < len(s.src) && s.src[i] != '\n' {
				i++
			}
		case s.cfg.Comments && c == '#':
			for i < len(s.src) && s.src[i] != '\n' {
				i++
			}
		case s.cfg.Comments && c == '/' && i+1 < len(s.src) && s.src[i+1] == '*':
			end := len(s.src)
			for k := i + 2; k+1 < len(s.src); k++ {
				if s.src[k] == '*' && s.src[k+1] == '/' {
					end = k + 2
					break
				}
			}
			i = end
		default:
			return i
		}
	}
	return i
}

// closesAt reports whether offset j terminates the current container: a
// closing bracket, or end of input when auto-close is about to supply
// one.
func (s *scanState) closesAt(j int) bool {
	if j < len(s.src) {
		return s.src[j] == '}' || s.src[j] == ']'
	}
	return s.cfg.AutoClose && len(s.stack) > 0
}

// markerLen returns the rune length of a truncation marker starting at i,
// or zero.
func (s *scanState) markerLen(i int) int {
	if i < len(s.src) && s.src[i] == '…' {
		return 1
	}
	if i+2 < len(s.src) && s.src[i] == '.' && s.src[i+1] == '.' && s.src[i+2] == '.' {
		return 3
	}
	return 0
}

// handleComma decides among three fates for a comma: removed as trailing,
// removed together with a truncation marker, or kept. Both removals need
// lookahead through whitespace and comments; the lookahead consumes
// nothing, so any comment it passed is still logged at its own position
// when the main scan reaches it.
func (s *scanState) handleComma() {
	j := s.nextSignificant(s.pos + 1)
	if s.cfg.TrailingCommas && s.closesAt(j) {
		s.record(KindTrailingComma, ",", "")
		s.advance()
		return
	}
	if s.cfg.Ellipsis {
		if n := s.markerLen(j); n > 0 && s.closesAt(s.nextSignificant(j+n)) {
			s.record(KindTruncationMarker, string(s.src[s.pos:j+n]), "")
			s.skipMarkerAt = j
			s.advance()
			return
		}
	}
	s.lastSig = ','
	s.emit(',')
	s.advance()
}

// handleMarker removes a truncation marker that terminates a container
// without a preceding comma, e.g. [...] or [1 ...]. Markers anywhere else
// pass through and fail the strict parse downstream.
func (s *scanState) handleMarker() {
	n := s.markerLen(s.pos)
	if s.closesAt(s.nextSignificant(s.pos + n)) {
		s.record(KindTruncationMarker, string(s.src[s.pos:s.pos+n]), "")
		for ; n > 0; n-- {
			s.advance()
		}
		return
	}
	s.lastSig = s.src[s.pos]
	s.emit(s.src[s.pos])
	s.advance()
}

// scanLineComment consumes a // or # comment up to, but not including,
// the terminating newline. The newline is ordinary whitespace and is
// emitted by the main loop.
func (s *scanState) scanLineComment(kind Kind) {
	start := s.pos
	end := start
	for end < len(s.src) && s.src[end] != '\n' {
		end++
	}
	s.record(kind, string(s.src[start:end]), "")
	for s.pos < end {
		s.advance()
	}
}

// scanBlockComment consumes a /* */ comment, or everything to end of
// input when the closing delimiter never arrives. A single space is
// emitted in its place so that tokens the comment separated stay
// separated.
func (s *scanState) scanBlockComment() {
	start := s.pos
	end := len(s.src)
	for k := start + 2; k+1 < len(s.src); k++ {
		if s.src[k] == '*' && s.src[k+1] == '/' {
			end = k + 2
			break
		}
	}
	s.record(KindBlockComment, string(s.src[start:end]), "")
	for s.pos < end {
		s.advance()
	}
	s.emit(' ')
}

// scanString consumes the body of a double-quoted string whose opening
// quote has already been emitted. Escape pairs pass through verbatim
// apart from quote normalization; literal newlines are escaped when
// enabled. Running out of input leaves the recovery flags set for
// finish.
func (s *scanState) scanString() {
	for s.pos < len(s.src) {
		c := s.normalizeQuote(s.src[s.pos])
		switch {
		case c == '\\':
			s.emit('\\')
			s.advance()
			if s.pos >= len(s.src) {
				s.inString = true
				s.escapePending = true
				return
			}
			s.emit(s.normalizeQuote(s.src[s.pos]))
			s.advance()
		case c == '"':
			s.emit('"')
			s.advance()
			return
		case c == '\n' || c == '\r':
			s.writeNewline(c)
		default:
			s.emit(c)
			s.advance()
		}
	}
	s.inString = true
}

// writeNewline handles a literal newline inside a string: escaped and
// logged when the option is on, passed through otherwise.
func (s *scanState) writeNewline(c rune) {
	if !s.cfg.EscapeNewlines {
		s.emit(c)
		s.advance()
		return
	}
	if c == '\r' {
		s.record(KindUnescapedNewline, "\r", `\r`)
		s.emit('\\')
		s.emit('r')
	} else {
		s.record(KindUnescapedNewline, "\n", `\n`)
		s.emit('\\')
		s.emit('n')
	}
	s.advance()
}

// scanSingleQuoted rewrites a single-quoted string as a double-quoted
// one. The closing quote is located first; when there is none the
// opening quote is not a string delimiter at all and is emitted as a
// plain character, exactly like any other stray rune.
//
// The conversion unescapes \' (needless inside double quotes), escapes
// bare double quotes, and leaves every other escape alone. The composite
// repair is inserted ahead of any repairs discovered inside the span so
// the log stays ordered by position.
func (s *scanState) scanSingleQuoted() {
	close := s.findSingleQuoteEnd(s.pos + 1)
	if close < 0 {
		s.lastSig = '\''
		s.emit('\'')
		s.advance()
		return
	}

	logAt := len(s.log)
	start := s.pos
	startLine, startCol := s.line, s.col
	outStart := len(s.out)

	s.emit('"')
	s.advance()
	for s.pos < close {
		c := s.normalizeQuote(s.src[s.pos])
		switch {
		case c == '\\':
			s.advance()
			esc := s.normalizeQuote(s.src[s.pos])
			switch esc {
			case '\'':
				s.emit('\'')
			case '"':
				s.emit('\\')
				s.emit('"')
			default:
				s.emit('\\')
				s.emit(esc)
			}
			s.advance()
		case c == '"':
			s.emit('\\')
			s.emit('"')
			s.advance()
		case c == '\n' || c == '\r':
			s.writeNewline(c)
		default:
			s.emit(c)
			s.advance()
		}
	}
	s.normalizeQuote(s.src[s.pos])
	s.emit('"')
	s.advance()
	s.lastSig = '"'

	original := string(s.src[start:s.pos])
	replacement := string(s.out[outStart:])
	rep := newRecord(KindSingleQuoteString, start, startLine, startCol, original, replacement)
	s.log = append(s.log, Record{})
	copy(s.log[logAt+1:], s.log[logAt:])
	s.log[logAt] = rep
}

// findSingleQuoteEnd locates the closing single quote from offset i,
// skipping escape pairs. Smart single quotes count as closers when
// normalization is on, since they normalize to the closing character.
func (s *scanState) findSingleQuoteEnd(i int) int {
	for i < len(s.src) {
		c := s.src[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '\'' {
			return i
		}
		if s.cfg.NormalizeQuotes {
			if _, ok := smartSingleQuotes[c]; ok {
				return i
			}
		}
		i++
	}
	return -1
}

// scanIdentifier handles a bare identifier in plain mode. In key
// position with a colon ahead it becomes a quoted key; otherwise, when
// it spells a Python literal on exact token boundaries, it becomes the
// JSON literal; otherwise it passes through for the strict parse to
// judge. Key quoting is checked first, so {True: 1} gains quotes rather
// than a lowercase literal key.
func (s *scanState) scanIdentifier() {
	start := s.pos
	end := start
	for end < len(s.src) && isIdentPart(s.src[end]) {
		end++
	}
	tok := string(s.src[start:end])

	if s.cfg.UnquotedKeys && s.keyContext() {
		j := s.nextSignificant(end)
		if j < len(s.src) && s.src[j] == ':' {
			s.record(KindUnquotedKey, tok, `"`+tok+`"`)
			s.emit('"')
			for s.pos < end {
				s.emit(s.src[s.pos])
				s.advance()
			}
			s.emit('"')
			s.lastSig = '"'
			return
		}
	}

	if s.cfg.PythonLiterals {
		if repl, ok := pythonLiterals[tok]; ok && s.literalBoundary(start, end) {
			s.record(KindPythonLiteral, tok, repl)
			for s.pos < end {
				s.advance()
			}
			for _, r := range repl {
				s.emit(r)
			}
			s.lastSig = rune(repl[0])
			return
		}
	}

	s.lastSig = s.src[start]
	for s.pos < end {
		s.emit(s.src[s.pos])
		s.advance()
	}
}

// keyContext reports whether a bare identifier here would be an object
// key: the innermost open container is an object and the last
// significant rune was its opening brace or a comma.
func (s *scanState) keyContext() bool {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1] != '{' {
		return false
	}
	return s.lastSig == '{' || s.lastSig == ','
}

// literalBoundary reports whether src[start:end] sits on exact token
// boundaries, so that Truest or _True are never rewritten.
func (s *scanState) literalBoundary(start, end int) bool {
	if start > 0 && isWordChar(s.src[start-1]) {
		return false
	}
	if end < len(s.src) && isWordChar(s.src[end]) {
		return false
	}
	return true
}

// finish runs the end-of-input recovery. An unterminated string is
// force-closed first (completing a dangling escape so the added quote
// cannot be swallowed by it), then the bracket stack unwinds innermost
// first. Every appended rune gets its own record, all anchored at end of
// input.
func (s *scanState) finish() {
	if !s.cfg.AutoClose {
		return
	}
	if s.inString {
		repl := `"`
		if s.escapePending {
			s.emit('\\')
			repl = `\"`
		}
		s.emit('"')
		s.record(KindMissingBracket, "", repl)
	}
	for {
		top, rest, ok := slice.Pop(s.stack)
		if !ok {
			break
		}
		s.stack = rest
		closer := '}'
		if top == '[' {
			closer = ']'
		}
		s.emit(closer)
		s.record(KindMissingBracket, "", string(closer))
	}
}
