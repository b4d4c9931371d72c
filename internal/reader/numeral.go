package reader

import (
	"strings"

	"golang.org/x/mod/semver"
)

// numeralIsValid applies the lexical numeral grammar spec.md adopts by
// default. When hostVersion names Lua 5.4 or newer, one additional rule
// from that host's own stricter numeral grammar is enforced: a hex float
// with a fractional part must carry a binary ('p'/'P') exponent. Older
// hosts accept such a numeral leniently and defer the rest of the checking
// to the host's own runtime.
func numeralIsValid(text, hostVersion string) bool {
	if text == "" {
		return false
	}

	strict := semver.Compare(normalizeHostVersion(hostVersion), "v5.4") >= 0

	lower := strings.ToLower(text)
	hex := len(lower) >= 2 && lower[0] == '0' && lower[1] == 'x'

	body := lower
	expSet := "eE"
	if hex {
		body = lower[2:]
		expSet = "pP"
	}

	mantissa := body
	hasExp := false
	if idx := strings.IndexAny(body, expSet); idx >= 0 {
		hasExp = true
		mantissa = body[:idx]
		exp := body[idx+1:]
		if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
			exp = exp[1:]
		}
		if exp == "" || !allDigits(exp, false) {
			return false
		}
	}

	intPart, fracPart := mantissa, ""
	if dot := strings.IndexByte(mantissa, '.'); dot >= 0 {
		intPart, fracPart = mantissa[:dot], mantissa[dot+1:]
	}

	if intPart == "" && fracPart == "" {
		return false
	}
	if !allDigits(intPart, hex) || !allDigits(fracPart, hex) {
		return false
	}

	if hex && strict && fracPart != "" && !hasExp {
		return false
	}

	return true
}

func allDigits(s string, hex bool) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if hex {
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
				return false
			}
		} else if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// normalizeHostVersion coerces a bare "5.4"-style version into the
// "vMAJOR.MINOR.PATCH" form golang.org/x/mod/semver requires.
func normalizeHostVersion(v string) string {
	if v == "" {
		return "v0.0.0"
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	for strings.Count(v, ".") < 2 {
		v += ".0"
	}
	return v
}
