package reader

import "testing"

// A vector-keyed field with no subsequent positional fields pads every
// missing component with "letterName=nil".
func TestMergeTableFieldPadsMissingComponents(t *testing.T) {
	src := "t = {v3pos = 1}\n"
	got := expand(t, src, true)
	want := "t = { xpos = 1,ypos=nil,zpos=nil}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// A quaternion-prefixed key keeps its leading 'q' in every synthesized
// component name.
func TestMergeTableFieldPreservesQuaternionPrefix(t *testing.T) {
	src := "t = {q4rot = 1, 2, 3, 4}\n"
	got := expand(t, src, true)
	for _, want := range []string{"qxrot = 1", "qyrot=2", "qzrot=3", "qwrot=4"} {
		if !containsSubstring(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

// Supplying more expressions than a vector key has components is a syntax
// error, not a silent truncation.
func TestMergeTableFieldTooManyExpressionsIsError(t *testing.T) {
	src := "t = {v2pos = 1, 2, 3}\n"
	err := expandErr(t, src, true)
	if err == nil {
		t.Fatalf("expected an error, got none")
	}
	if err.Class != ErrSyntax {
		t.Errorf("expected syntax class, got %v", err.Class)
	}
}

// A bracketed field ('[' exp ']' '=' exp) never participates in a merge,
// even when it sits right after a vector-keyed field.
func TestBracketedFieldDoesNotMerge(t *testing.T) {
	src := "t = {v2pos = 1, [3] = 9}\n"
	got := expand(t, src, true)
	if !containsSubstring(got, "[3] = 9") {
		t.Errorf("expected bracketed field untouched, got %q", got)
	}
	if !containsSubstring(got, "ypos=nil") {
		t.Errorf("expected the unmerged component to be padded with nil, got %q", got)
	}
}
