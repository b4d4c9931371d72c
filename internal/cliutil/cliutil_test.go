package cliutil

import "testing"

func TestDefaultOutputPath(t *testing.T) {
	cases := map[string]string{
		"script.lua":        "script_expanded.lua",
		"dir/script.lua":    "dir/script_expanded.lua",
		"dir.with.dots/x":   "dir.with.dots/x_expanded",
		"noext":             "noext_expanded",
		"a/b.c/noext":       "a/b.c/noext_expanded",
		"a/b.c/script.lua":  "a/b.c/script_expanded.lua",
	}

	for in, want := range cases {
		if got := DefaultOutputPath(in); got != want {
			t.Errorf("DefaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSuggestFlagFindsClosestMatch(t *testing.T) {
	known := []string{"force", "output", "log-clear", "host-version"}
	if got := SuggestFlag("forc", known); got != "force" {
		t.Errorf("SuggestFlag(forc) = %q, want force", got)
	}
	if got := SuggestFlag("zzz-not-close", known); got != "" {
		t.Errorf("SuggestFlag(zzz-not-close) = %q, want \"\"", got)
	}
}
