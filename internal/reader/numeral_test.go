package reader

import "testing"

func TestNumeralIsValidLexical(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"123", true},
		{"123.45", true},
		{".5", true},
		{"5.", true},
		{"1e10", true},
		{"1e+10", true},
		{"1e", false},
		{"0x1A", true},
		{"0x1p4", true},
		{"0x1.8p4", true},
		{"", false},
		{".", false},
		{"abc", false},
	}

	for _, c := range cases {
		if got := numeralIsValid(c.text, "v5.1"); got != c.want {
			t.Errorf("numeralIsValid(%q, v5.1) = %v, want %v", c.text, got, c.want)
		}
	}
}

// A hex float with a fractional part but no binary exponent is only rejected
// once hostVersion names 5.4 or newer; older hosts accept it leniently.
func TestNumeralHexFloatStrictnessGatedByHostVersion(t *testing.T) {
	const text = "0x1.8"

	if !numeralIsValid(text, "v5.1") {
		t.Errorf("expected %q to be valid under host v5.1", text)
	}
	if !numeralIsValid(text, "v5.3") {
		t.Errorf("expected %q to be valid under host v5.3", text)
	}
	if numeralIsValid(text, "v5.4") {
		t.Errorf("expected %q to be invalid under host v5.4", text)
	}
	if numeralIsValid(text, "v5.5") {
		t.Errorf("expected %q to be invalid under host v5.5", text)
	}
}

func TestNormalizeHostVersion(t *testing.T) {
	cases := map[string]string{
		"":      "v0.0.0",
		"5.4":   "v5.4.0",
		"v5.4":  "v5.4.0",
		"v5":    "v5.0.0",
		"5.4.1": "v5.4.1",
	}

	for in, want := range cases {
		if got := normalizeHostVersion(in); got != want {
			t.Errorf("normalizeHostVersion(%q) = %q, want %q", in, got, want)
		}
	}
}
