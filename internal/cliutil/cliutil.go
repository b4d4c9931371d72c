// Package cliutil holds small helpers shared by cmd/lfv that don't belong
// in the reader engine itself: default output-path derivation and
// did-you-mean suggestion matching.
package cliutil

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultOutputPath mirrors lfvutil.c's default: insert "_expanded" before
// the input path's extension (the one after its final path separator), or
// append it if there's no extension.
func DefaultOutputPath(inputPath string) string {
	ext := extensionDot(inputPath)
	if ext < 0 {
		return inputPath + "_expanded"
	}
	return inputPath[:ext] + "_expanded" + inputPath[ext:]
}

// extensionDot returns the index of the final '.' in path that comes after
// its last path separator, or -1 if there is none.
func extensionDot(path string) int {
	slash := strRPBrk(path, "/\\")
	dot := strings.LastIndexByte(path, '.')
	if dot >= 0 && dot > slash {
		return dot
	}
	return -1
}

// strRPBrk returns the highest index in s of any byte in breakSet, or -1.
func strRPBrk(s, breakSet string) int {
	return strings.LastIndexAny(s, breakSet)
}

// SuggestFlag finds the closest known flag name to an unrecognized one
// typed by the user, for a "did you mean --force?" hint. Returns "" if
// nothing is close enough.
func SuggestFlag(typo string, known []string) string {
	return closest(typo, known)
}

// SuggestConfigKey is SuggestFlag's counterpart for .lfvrc.json keys.
func SuggestConfigKey(typo string, known []string) string {
	return closest(typo, known)
}

func closest(typo string, known []string) string {
	ranks := fuzzy.RankFindFold(typo, known)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
