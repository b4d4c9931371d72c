package reader

import "testing"

func TestIsWhitespace(t *testing.T) {
	for _, c := range []byte(" \t\n\r\f") {
		if !isWhitespace(c) {
			t.Errorf("expected %q to be whitespace", c)
		}
	}
	for _, c := range []byte("a0_") {
		if isWhitespace(c) {
			t.Errorf("expected %q not to be whitespace", c)
		}
	}
}

func TestIsIdentChar(t *testing.T) {
	for _, c := range []byte("aZ_09") {
		if !isIdentChar(c) {
			t.Errorf("expected %q to be an identifier char", c)
		}
	}
	for _, c := range []byte(" +-.") {
		if isIdentChar(c) {
			t.Errorf("expected %q not to be an identifier char", c)
		}
	}
}

func TestWhitespaceSpan(t *testing.T) {
	buf := []byte("  \n\tx")
	line := 1
	n := whitespaceSpan(buf, 0, &line)
	if n != 4 {
		t.Errorf("whitespaceSpan = %d, want 4", n)
	}
	if line != 2 {
		t.Errorf("line = %d, want 2 (one newline crossed)", line)
	}
}

func TestSpan(t *testing.T) {
	buf := []byte("abc123\x00")
	if n := span(buf, 0, "abc", true); n != 3 {
		t.Errorf("span(in) = %d, want 3", n)
	}
	if n := span(buf, 3, "abc", false); n != 3 {
		t.Errorf("span(not-in) = %d, want 3", n)
	}
}

func TestIndexByte(t *testing.T) {
	if indexByte("xyz", 'y') != 1 {
		t.Errorf("expected index 1")
	}
	if indexByte("xyz", 'q') != -1 {
		t.Errorf("expected -1 for absent byte")
	}
}

// Long-bracketed comments are skipped whole, including any embedded "--"
// that would otherwise start a nested short comment, and are passed through
// to the output unchanged.
func TestSkipLongBracketComment(t *testing.T) {
	src := "--[[ inside -- still inside ]]local v2pos = 1\n"
	got := expand(t, src, true)
	if !containsSubstring(got, "--[[ inside -- still inside ]]") {
		t.Errorf("expected comment to pass through unchanged, got %q", got)
	}
	if !containsSubstring(got, "xpos") {
		t.Errorf("expected expansion past the comment, got %q", got)
	}
}
