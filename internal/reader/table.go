package reader

// fieldKind distinguishes the three table-constructor field shapes spec.md
// §4.3.3 describes.
type fieldKind int

const (
	fieldBracketed fieldKind = iota // '[' exp ']' '=' exp — never merges
	fieldAssign                     // Name '=' exp — merges when Name is a vector prefix
	fieldPositional                 // exp — consumed into a pending merge
)

// fieldResult carries what expandField found back to expandFieldlist: the
// key's vector-mark offset (fieldAssign only) and the marks published for
// its right-hand/positional expression (one per duplicate, or exactly one
// representing a non-vector expression).
type fieldResult struct {
	kind      fieldKind
	keyMark   int
	wantComps int
	marks     []int
}

// mergePrep tracks an in-progress vector-key merge across a run of
// subsequent positional fields within one fieldlist.
type mergePrep struct {
	active    bool
	keyMark   int
	wantComps int
	collected []int
}

// expandTableConstructor recognizes '{' [fieldlist] '}'.
func (s *State) expandTableConstructor() int {
	s.enterRecursion(s.line)
	defer s.leaveRecursion()

	line := s.line
	s.resetTokenSize()
	if s.buf[s.tok] != '{' {
		return exUnfit
	}
	s.nextTokenSkipComments()

	s.resetTokenSize()
	if s.buf[s.tok] == '}' {
		s.nextTokenSkipComments()
		return exOk
	}

	if s.expandFieldlist() != exOk {
		return s.fail(line, "bad fieldlist in tableconstructor")
	}

	s.resetTokenSize()
	if s.buf[s.tok] != '}' {
		return s.fail(line, "expected '}' after tableconstructor fieldlist")
	}
	s.nextTokenSkipComments()
	return exOk
}

// expandFieldlist recognizes field {fieldsep field} [fieldsep], fieldsep
// being ',' or ';'. It drives the vector-key merge: once a fieldAssign
// field publishes a vector key, subsequent positional fields are folded
// into that key's missing components until wantComps are satisfied or a
// non-mergeable field or the list's end closes it out.
func (s *State) expandFieldlist() int {
	res, fr := s.expandField()
	if res != exOk {
		return res
	}

	var prep mergePrep
	if !s.startMerge(&prep, fr) {
		return exErr
	}

	for s.buf[s.tok] == ',' || s.buf[s.tok] == ';' {
		s.nextTokenSkipComments()

		res, fr := s.expandField()
		if res == exUnfit {
			break
		}
		if res == exErr {
			return exErr
		}

		if prep.active && fr.kind == fieldPositional {
			prep.collected = append(prep.collected, fr.marks...)
			if len(prep.collected) >= prep.wantComps {
				if !s.mergeFields(prep.keyMark, prep.collected, prep.wantComps) {
					return exErr
				}
				prep = mergePrep{}
			}
			continue
		}

		if prep.active {
			if !s.mergeFields(prep.keyMark, prep.collected, prep.wantComps) {
				return exErr
			}
			prep = mergePrep{}
		}

		if !s.startMerge(&prep, fr) {
			return exErr
		}
	}

	if prep.active {
		if !s.mergeFields(prep.keyMark, prep.collected, prep.wantComps) {
			return exErr
		}
	}

	return exOk
}

// startMerge opens a merge for fr if it is a fieldAssign with a vector key.
// fr.marks (the key's own right-hand value, component 0) is already sitting
// in place right after the renamed key and is not itself a collected mark:
// mergeFields only ever inserts prefixes in front of m1..mk-1.
func (s *State) startMerge(prep *mergePrep, fr fieldResult) bool {
	if fr.kind != fieldAssign || fr.keyMark < 0 {
		*prep = mergePrep{}
		return true
	}

	*prep = mergePrep{active: true, keyMark: fr.keyMark, wantComps: fr.wantComps}
	return true
}

// expandField recognizes one of the three field shapes.
func (s *State) expandField() (int, fieldResult) {
	line := s.line
	s.resetTokenSize()

	if s.buf[s.tok] == '[' {
		s.nextTokenSkipComments()
		if r, _ := s.expandExp(false); r != exOk {
			return s.fail(line, "expected exp after '[' in field"), fieldResult{}
		}
		s.resetTokenSize()
		if s.buf[s.tok] != ']' {
			return s.fail(line, "expected ']' after '[exp' in field"), fieldResult{}
		}
		s.nextTokenSkipComments()
		s.resetTokenSize()
		if s.buf[s.tok] != '=' {
			return s.fail(line, "expected '=' after '[exp]' in field"), fieldResult{}
		}
		s.nextTokenSkipComments()
		if r, _ := s.expandExp(false); r != exOk {
			return s.fail(line, "expected exp after '[exp]=' in field"), fieldResult{}
		}
		return exOk, fieldResult{kind: fieldBracketed}
	}

	base := len(s.marks)
	expStart := s.tok
	lres, _ := s.expandExp(true)
	if lres == exUnfit {
		return exUnfit, fieldResult{}
	}
	if lres == exErr {
		return exErr, fieldResult{}
	}

	s.resetTokenSize()
	if s.buf[s.tok] == '=' {
		numMarks := len(s.marks) - base
		if numMarks > 1 {
			s.marks = s.marks[:base]
			return s.fail(line, "field assignment target has more than one vector"), fieldResult{}
		}

		keyMark := -1
		wantComps := 0
		if numMarks == 1 {
			keyMark = s.marks[base]
			wantComps = vectorComponents(s.buf, keyMark)
		}
		s.marks = s.marks[:base]

		s.nextTokenSkipComments()

		rbase := len(s.marks)
		rExpStart := s.tok
		rres, _ := s.expandExp(true)
		if rres != exOk {
			return s.fail(line, "expected exp after '=' in field"), fieldResult{}
		}

		s.duplicateVecs(rExpStart, s.beforeSkip, rbase, true)
		marks := append([]int(nil), s.marks[rbase:]...)
		s.marks = s.marks[:rbase]

		return exOk, fieldResult{kind: fieldAssign, keyMark: keyMark, wantComps: wantComps, marks: marks}
	}

	s.duplicateVecs(expStart, s.beforeSkip, base, true)
	marks := append([]int(nil), s.marks[base:]...)
	s.marks = s.marks[:base]

	return exOk, fieldResult{kind: fieldPositional, marks: marks}
}
