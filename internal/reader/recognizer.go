package reader

import "github.com/mceicys/lfv-go/internal/lfverrors"

const (
	identifierChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"
	numeralChars    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz+-."
)

var reservedWords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// fatalAbort is panicked from deep inside the recognizer when the
// recursion limit is exceeded (see enterRecursion) and recovered once at the
// top-level driver boundary. Memory and size-overflow failures are recorded
// and returned normally instead. It is never used for ordinary control flow.
type fatalAbort struct {
	err *lfverrors.ExpandError
}

func (s *State) enterRecursion(line int) {
	s.level++
	if s.level > maxRecursion {
		panic(fatalAbort{lfverrors.Recursion(line)})
	}
}

func (s *State) leaveRecursion() {
	s.level--
}

// vectorComponents decodes the component count of a v2/v3/q4 prefix at buf
// offset tok, or 0 if the two bytes there are not a recognized prefix.
func vectorComponents(buf []byte, tok int) int {
	if tok+1 >= len(buf) {
		return 0
	}
	c0, c1 := buf[tok], buf[tok+1]
	switch {
	case c0 == 'v' && c1 == '2':
		return 2
	case c0 == 'v' && c1 == '3':
		return 3
	case c0 == 'q' && c1 == '4':
		return 4
	}
	return 0
}

// expandBlock recognizes a sequence of statements followed by an optional
// return statement.
func (s *State) expandBlock() int {
	s.enterRecursion(s.line)
	defer s.leaveRecursion()

	for {
		res := s.expandStat()
		if res == exUnfit {
			break
		} else if res == exErr {
			return exErr
		}
	}

	if s.expandRetstat() == exErr {
		return exErr
	}
	return exOk
}

// expandStat recognizes one statement.
func (s *State) expandStat() int {
	line := s.line
	s.resetTokenSize()

	if s.buf[s.tok] == ';' {
		s.tokSize = 1
		s.nextTokenSkipComments()
		return exOk
	}

	if s.buf[s.tok] == ':' {
		if s.expandLabel() != exOk {
			return s.fail(line, "expected label at ':'")
		}
		return exOk
	}

	s.extendToken(identifierChars)

	switch {
	case s.equalToken("break"):
		s.nextTokenSkipComments()
		return exOk

	case s.equalToken("goto"):
		s.nextTokenSkipComments()
		if s.expandName(false) != exOk {
			return s.fail(line, "expected Name after 'goto'")
		}
		return exOk

	case s.equalToken("do"):
		s.nextTokenSkipComments()
		if s.expandBlock() != exOk {
			return s.fail(line, "expected block after 'do'")
		}
		s.extendToken(identifierChars)
		if !s.equalToken("end") {
			return s.fail(line, "expected 'end' after 'do block'")
		}
		s.nextTokenSkipComments()
		return exOk

	case s.equalToken("while"):
		s.nextTokenSkipComments()
		if r, _ := s.expandExp(false); r != exOk {
			return s.fail(line, "expected exp after 'while'")
		}
		s.extendToken(identifierChars)
		if !s.equalToken("do") {
			return s.fail(line, "expected 'do' after 'while exp'")
		}
		s.nextTokenSkipComments()
		if s.expandBlock() != exOk {
			return s.fail(line, "expected block after 'while exp do'")
		}
		s.extendToken(identifierChars)
		if !s.equalToken("end") {
			return s.fail(line, "expected 'end' after 'while exp do block'")
		}
		s.nextTokenSkipComments()
		return exOk

	case s.equalToken("repeat"):
		s.nextTokenSkipComments()
		if s.expandBlock() != exOk {
			return s.fail(line, "expected block after 'repeat'")
		}
		s.extendToken(identifierChars)
		if !s.equalToken("until") {
			return s.fail(line, "expected 'until' after 'repeat block'")
		}
		s.nextTokenSkipComments()
		if r, _ := s.expandExp(false); r != exOk {
			return s.fail(line, "expected exp after 'repeat block until'")
		}
		return exOk

	case s.equalToken("if"):
		return s.expandIf(line)

	case s.equalToken("for"):
		return s.expandFor(line)

	case s.equalToken("function"):
		s.nextTokenSkipComments()
		if s.expandFuncname() != exOk {
			return s.fail(line, "expected funcname after 'function'")
		}
		if s.expandFuncbody() != exOk {
			return s.fail(line, "expected funcbody after 'function funcname'")
		}
		return exOk

	case s.equalToken("local"):
		return s.expandLocal(line)
	}

	// varlist '=' explist | functioncall, both start with an explist.
	res := s.expandExplist()
	if res == exOk {
		if s.buf[s.tok] == '=' {
			s.nextTokenSkipComments()
			if s.expandExplist() != exOk {
				return s.fail(line, "expected explist after 'explist ='")
			}
		}
		return exOk
	} else if res == exErr {
		return s.fail(line, "bad explist at start of stat")
	}

	return exUnfit
}

func (s *State) expandIf(line int) int {
	s.nextTokenSkipComments()
	if r, _ := s.expandExp(false); r != exOk {
		return s.fail(line, "expected exp after 'if'")
	}
	s.extendToken(identifierChars)
	if !s.equalToken("then") {
		return s.fail(line, "expected 'then' after 'if exp'")
	}
	s.nextTokenSkipComments()
	if s.expandBlock() != exOk {
		return s.fail(line, "expected block after 'if exp then'")
	}
	s.extendToken(identifierChars)

	for s.equalToken("elseif") {
		s.nextTokenSkipComments()
		if r, _ := s.expandExp(false); r != exOk {
			return s.fail(line, "expected exp after 'elseif'")
		}
		s.extendToken(identifierChars)
		if !s.equalToken("then") {
			return s.fail(line, "expected 'then' after 'elseif exp'")
		}
		s.nextTokenSkipComments()
		if s.expandBlock() != exOk {
			return s.fail(line, "expected block after 'elseif exp then'")
		}
		s.extendToken(identifierChars)
	}

	if s.equalToken("else") {
		s.nextTokenSkipComments()
		if s.expandBlock() != exOk {
			return s.fail(line, "expected block after 'else'")
		}
		s.extendToken(identifierChars)
	}

	if !s.equalToken("end") {
		return s.fail(line, "expected 'end' after if/elseif/else chain")
	}
	s.nextTokenSkipComments()
	return exOk
}

func (s *State) expandFor(line int) int {
	s.nextTokenSkipComments()
	if s.expandExplist() != exOk {
		return s.fail(line, "expected explist after 'for'")
	}

	if s.buf[s.tok] != '=' {
		s.extendToken(identifierChars)
		if !s.equalToken("in") {
			return s.fail(line, "expected '=' or 'in' after 'for explist'")
		}
	}

	s.nextTokenSkipComments()
	if s.expandExplist() != exOk {
		return s.fail(line, "expected explist after 'for explist =|in'")
	}
	s.extendToken(identifierChars)
	if !s.equalToken("do") {
		return s.fail(line, "expected 'do' after 'for explist =|in explist'")
	}
	s.nextTokenSkipComments()
	if s.expandBlock() != exOk {
		return s.fail(line, "expected block after 'for ... do'")
	}
	s.extendToken(identifierChars)
	if !s.equalToken("end") {
		return s.fail(line, "expected 'end' after 'for ... do block'")
	}
	s.nextTokenSkipComments()
	return exOk
}

func (s *State) expandLocal(line int) int {
	s.nextTokenSkipComments()
	s.extendToken(identifierChars)

	if s.equalToken("function") {
		s.nextTokenSkipComments()
		if s.expandName(false) != exOk {
			return s.fail(line, "expected Name after 'local function'")
		}
		if s.expandFuncbody() != exOk {
			return s.fail(line, "expected funcbody after 'local function Name'")
		}
		return exOk
	}

	if s.expandExplist() != exOk {
		return s.fail(line, "expected 'function' or explist after 'local'")
	}

	if s.buf[s.tok] == '=' {
		s.nextTokenSkipComments()
		if s.expandExplist() != exOk {
			return s.fail(line, "expected explist after 'local explist ='")
		}
	}
	return exOk
}

// expandRetstat recognizes an optional 'return' statement.
func (s *State) expandRetstat() int {
	line := s.line
	s.extendToken(identifierChars)

	if !s.equalToken("return") {
		return exUnfit
	}
	s.nextTokenSkipComments()

	if s.expandExplist() == exErr {
		return s.fail(line, "bad explist after 'return'")
	}

	if s.buf[s.tok] == ';' {
		s.nextTokenSkipComments()
	}
	return exOk
}

// expandLabel recognizes '::' Name '::'.
func (s *State) expandLabel() int {
	line := s.line
	s.extendToken(":")

	if s.tokSize != 2 {
		return exUnfit
	}
	s.nextTokenSkipComments()

	if s.expandName(false) != exOk {
		return s.fail(line, "label expected Name after '::'")
	}

	s.extendToken(":")
	if s.tokSize != 2 {
		return s.fail(line, "label expected '::' after '::Name'")
	}
	s.nextTokenSkipComments()
	return exOk
}

// expandName recognizes an identifier that is not a reserved word. If
// checkVector is set and the identifier begins with a vector prefix, the
// prefix's offset is pushed onto the mark stack.
func (s *State) expandName(checkVector bool) int {
	if s.buf[s.tok] >= '0' && s.buf[s.tok] <= '9' {
		return exUnfit
	}

	s.extendToken(identifierChars)
	if s.tokSize == 0 {
		return exUnfit
	}
	if reservedWords[string(s.buf[s.tok:s.tok+s.tokSize])] {
		return exUnfit
	}

	if checkVector && s.tokSize >= 2 {
		if vectorComponents(s.buf, s.tok) != 0 {
			s.marks = append(s.marks, s.tok)
		}
	}

	s.nextTokenSkipComments()
	return exOk
}

// expandNumeral recognizes a decimal or hex numeral with optional fraction
// and exponent. Strictness is gated by HostVersion (see numeralIsValid).
func (s *State) expandNumeral() int {
	line := s.line
	s.resetTokenSize()

	if s.tokSize == 0 || !(s.buf[s.tok] >= '0' && s.buf[s.tok] <= '9') {
		return exUnfit
	}

	s.extendToken(numeralChars)

	// A '-'/'+' mid-token belongs to a following operator or comment, not
	// the numeral's exponent sign, unless it directly follows e/E/p/P.
	for i := 1; i < s.tokSize; i++ {
		c := s.buf[s.tok+i]
		if c == '-' || c == '+' {
			prev := s.buf[s.tok+i-1]
			if prev != 'e' && prev != 'E' && prev != 'p' && prev != 'P' {
				s.tokSize = i
				break
			}
		}
	}

	text := string(s.buf[s.tok : s.tok+s.tokSize])
	if !numeralIsValid(text, s.HostVersion) {
		return s.fail(line, "bad numeral %q", text)
	}

	s.nextTokenSkipComments()
	return exOk
}

// expandString recognizes a short (quoted) or long-bracketed string
// literal.
func (s *State) expandString() int {
	line := s.line
	s.resetTokenSize()
	open := s.buf[s.tok]

	if open == '"' || open == '\'' {
		for {
			s.nextTokenNoSkip()
			s.extendCToken("'\"\n")
			s.nextTokenNoSkip()

			c := s.buf[s.tok]
			if c == '\'' || c == '"' {
				escaped := s.tok > 0 && s.buf[s.tok-1] == '\\'
				if c != open || escaped {
					continue
				}
				s.nextTokenSkipComments()
				return exOk
			}
			return s.fail(line, "unclosed short string literal")
		}
	}

	if s.skipLongBracket() {
		s.tokSize = 0
		s.nextTokenSkipComments()
		return exOk
	}

	return exUnfit
}

// expandFuncname recognizes Name {'.' Name} [':' Name].
func (s *State) expandFuncname() int {
	line := s.line
	res := s.expandName(false)
	if res != exOk {
		return res
	}

	for s.buf[s.tok] == '.' {
		s.nextTokenSkipComments()
		if s.expandName(false) != exOk {
			return s.fail(line, "funcname expected Name after 'Name.'")
		}
	}

	if s.buf[s.tok] == ':' {
		s.nextTokenSkipComments()
		if s.expandName(false) != exOk {
			return s.fail(line, "funcname expected Name after ':'")
		}
	}
	return exOk
}

// expandExplist recognizes exp {',' exp}.
func (s *State) expandExplist() int {
	line := s.line
	res, _ := s.expandExp(false)
	if res != exOk {
		return res
	}

	for s.buf[s.tok] == ',' {
		s.nextTokenSkipComments()
		if r, _ := s.expandExp(false); r != exOk {
			return s.fail(line, "explist expected exp after ','")
		}
	}
	return exOk
}

// expandExp recognizes one expression: an operand/operator chain with
// parenthesis nesting and prefix-expression tails (call, indexing, field
// access). If delayRequested is set and the expression collected one or
// more vector marks, duplication is deferred and a delayedDup request is
// returned with the marks still on the stack; otherwise duplication (via
// duplicateVecs) happens immediately before return.
func (s *State) expandExp(delayRequested bool) (int, delayedDup) {
	s.enterRecursion(s.line)
	defer s.leaveRecursion()

	line := s.line
	start := s.tok
	hang := true  // next token should be a ref or value
	ref := false  // last token completed a potential object reference
	par := 0      // parenthesis nesting level
	saveMarks := len(s.marks)

	fail := func(format string, args ...interface{}) (int, delayedDup) {
		s.marks = s.marks[:saveMarks]
		return s.fail(line, format, args...), delayedDup{}
	}

loop:
	for {
		if !hang {
			switch s.expandBinop() {
			case exOk:
				hang, ref = true, false
				continue loop
			case exErr:
				return fail("bad binop in exp")
			}
		}

		switch s.expandUnop() {
		case exOk:
			hang, ref = true, false
			continue loop
		case exErr:
			return fail("bad unop in exp")
		}

		if hang {
			s.extendToken(identifierChars)
			if s.equalToken("nil") || s.equalToken("false") || s.equalToken("true") {
				s.nextTokenSkipComments()
				hang, ref = false, false
				continue loop
			}

			switch s.expandString() {
			case exOk:
				hang, ref = false, false
				continue loop
			case exErr:
				return fail("bad string literal in exp")
			}

			switch s.expandNumeral() {
			case exOk:
				hang, ref = false, false
				continue loop
			case exErr:
				return fail("bad numeral in exp")
			}

			s.extendToken(".")
			if s.tokSize == 3 {
				s.nextTokenSkipComments()
				hang, ref = false, false
				continue loop
			}

			switch s.expandFunctiondef() {
			case exOk:
				hang, ref = false, true
				continue loop
			case exErr:
				return fail("bad functiondef in exp")
			}

			switch s.expandTableConstructor() {
			case exOk:
				hang, ref = false, false
				continue loop
			case exErr:
				return fail("bad tableconstructor in exp")
			}

			s.resetTokenSize()
			if s.buf[s.tok] == '(' {
				s.nextTokenSkipComments()
				par++
				hang, ref = true, false
				continue loop
			}

			switch s.expandName(true) {
			case exOk:
				hang, ref = false, true
				continue loop
			case exErr:
				return fail("bad Name in exp")
			}
		}

		if ref {
			s.extendToken(":")
			if s.tokSize == 1 {
				s.nextTokenSkipComments()
				if s.expandName(false) != exOk {
					return fail("expected Name after ':' in exp method call")
				}
				if s.expandArgs() != exOk {
					return fail("expected args after ':Name' in exp method call")
				}
				hang, ref = false, true
				continue loop
			}

			switch s.expandArgs() {
			case exOk:
				hang, ref = false, true
				continue loop
			case exErr:
				return fail("bad args in exp function call")
			}

			s.resetTokenSize()
			if s.buf[s.tok] == '[' {
				s.nextTokenSkipComments()
				if r, _ := s.expandExp(false); r != exOk {
					return fail("expected exp after '[' in exp var")
				}
				if s.buf[s.tok] != ']' {
					return fail("expected ']' after '[exp' in exp var")
				}
				s.nextTokenSkipComments()
				hang, ref = false, true
				continue loop
			}

			if s.buf[s.tok] == '.' {
				s.nextTokenSkipComments()
				if s.expandName(true) != exOk {
					return fail("expected Name after '.' in exp var")
				}
				hang, ref = false, true
				continue loop
			}
		}

		s.resetTokenSize()
		if s.buf[s.tok] == ')' {
			par--
			if par < 0 {
				break loop
			}
			s.nextTokenSkipComments()
			continue loop
		}

		break loop
	}

	if par > 0 {
		return fail("exp has unclosed parenthesis")
	}
	if start != s.tok && hang {
		return fail("exp has hanging operator")
	}

	if start == s.tok {
		// Matched nothing: unfit, same as the original's
		// "start == s->tok ? EXPAND_UNFIT : EXPAND_OK".
		s.marks = s.marks[:saveMarks]
		return exUnfit, delayedDup{}
	}

	if len(s.marks) == saveMarks {
		return exOk, delayedDup{}
	}

	if delayRequested {
		return exOk, delayedDup{expStart: start, marksStart: saveMarks, valid: true}
	}

	s.duplicateVecs(start, s.beforeSkip, saveMarks, false)
	return exOk, delayedDup{}
}

// expandArgs recognizes '(' explist ')' | tableconstructor | string.
func (s *State) expandArgs() int {
	line := s.line
	s.resetTokenSize()

	if s.buf[s.tok] == '(' {
		s.nextTokenSkipComments()
		if s.expandExplist() == exErr {
			return s.fail(line, "bad explist after '(' in args")
		}
		if s.buf[s.tok] != ')' {
			return s.fail(line, "expected ')' after '(explist' in args")
		}
		s.nextTokenSkipComments()
		return exOk
	}

	switch s.expandTableConstructor() {
	case exOk:
		return exOk
	case exErr:
		return s.fail(line, "bad tableconstructor in args")
	}

	switch s.expandString() {
	case exOk:
		return exOk
	case exErr:
		return s.fail(line, "bad string literal in args")
	}

	return exUnfit
}

// expandFunctiondef recognizes 'function' funcbody.
func (s *State) expandFunctiondef() int {
	line := s.line
	s.extendToken(identifierChars)

	if !s.equalToken("function") {
		return exUnfit
	}
	s.nextTokenSkipComments()

	if s.expandFuncbody() != exOk {
		return s.fail(line, "functiondef expected funcbody after 'function'")
	}
	return exOk
}

// expandFuncbody recognizes '(' [explist] ')' block 'end'.
func (s *State) expandFuncbody() int {
	s.enterRecursion(s.line)
	defer s.leaveRecursion()

	line := s.line
	s.resetTokenSize()

	if s.buf[s.tok] != '(' {
		return exUnfit
	}
	s.nextTokenSkipComments()

	if s.expandExplist() == exErr {
		return s.fail(line, "bad explist in funcbody after '('")
	}

	s.resetTokenSize()
	if s.buf[s.tok] != ')' {
		return s.fail(line, "funcbody expected ')' after '(explist'")
	}
	s.nextTokenSkipComments()

	if s.expandBlock() != exOk {
		return s.fail(line, "funcbody expected block after '(explist)'")
	}

	s.extendToken(identifierChars)
	if !s.equalToken("end") {
		return s.fail(line, "funcbody expected 'end' after '(explist) block'")
	}
	s.nextTokenSkipComments()
	return exOk
}

// expandBinop recognizes one of the host language's binary operators.
func (s *State) expandBinop() int {
	s.resetTokenSize()
	if s.tokSize == 0 {
		return exUnfit
	}

	switch s.buf[s.tok] {
	case '+', '-', '*', '^', '%', '&', '|':
		s.nextTokenSkipComments()
		return exOk
	case '/':
		s.extendToken("/")
		if s.tok+1 < len(s.buf) && s.buf[s.tok+1] == '/' {
			s.tokSize = 2
		} else {
			s.tokSize = 1
		}
		s.nextTokenSkipComments()
		return exOk
	case '>':
		s.extendToken(">=")
		nc := byte(0)
		if s.tok+1 < len(s.buf) {
			nc = s.buf[s.tok+1]
		}
		if nc == '>' || nc == '=' {
			s.tokSize = 2
		} else {
			s.tokSize = 1
		}
		s.nextTokenSkipComments()
		return exOk
	case '<':
		s.extendToken("<=")
		nc := byte(0)
		if s.tok+1 < len(s.buf) {
			nc = s.buf[s.tok+1]
		}
		if nc == '<' || nc == '=' {
			s.tokSize = 2
		} else {
			s.tokSize = 1
		}
		s.nextTokenSkipComments()
		return exOk
	case '.':
		s.extendToken(".")
		if s.tokSize != 2 {
			return exUnfit
		}
		s.nextTokenSkipComments()
		return exOk
	case '~':
		s.extendToken("~=")
		if s.tok+1 < len(s.buf) && s.buf[s.tok+1] == '=' {
			s.tokSize = 2
		} else {
			s.tokSize = 1
		}
		s.nextTokenSkipComments()
		return exOk
	case '=':
		s.extendToken("=")
		if s.tok+1 < len(s.buf) && s.buf[s.tok+1] == '=' {
			s.tokSize = 2
			s.nextTokenSkipComments()
			return exOk
		}
		return exUnfit
	}

	s.extendToken(identifierChars)
	if s.equalToken("and") || s.equalToken("or") {
		s.nextTokenSkipComments()
		return exOk
	}
	return exUnfit
}

// expandUnop recognizes one of '-', '#', '~', 'not'.
func (s *State) expandUnop() int {
	c := s.buf[s.tok]
	s.resetTokenSize()
	if s.tokSize == 0 {
		return exUnfit
	}

	if c == '-' || c == '#' || c == '~' {
		s.nextTokenSkipComments()
		return exOk
	}

	s.extendToken(identifierChars)
	if s.equalToken("not") {
		s.nextTokenSkipComments()
		return exOk
	}
	return exUnfit
}
