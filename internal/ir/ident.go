package ir

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SQLName derives the SQL identifier for a declared entity or column
// name: the name is normalized to NFC (so visually identical spec
// sources map to the same identifier regardless of how their editors
// encoded them), then converted from CamelCase to snake_case and
// lowercased.
//
// Examples: "Account" -> "account", "TokenBalance" -> "token_balance",
// "balanceUSD" -> "balance_usd".
func SQLName(name string) string {
	name = norm.NFC.String(name)

	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && needsBreak(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// needsBreak reports whether a word boundary precedes runes[i], which is
// known to be upper case. A boundary exists after a lower-case rune
// ("tokenBalance") and before the last upper of an acronym followed by a
// lower ("USDPrice" -> "usd_price").
func needsBreak(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i-1]) {
		return true
	}
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
