// SPDX-License-Identifier: MPL-2.0

package options

import "regexp"

var overridePattern = regexp.MustCompile(`^([^\s=]+)=(.*)$`)

// ParseOverrides reads "key=value" tokens into a Store. Values stay strings.
// Tokens that do not match are returned as skipped, in order.
func ParseOverrides(tokens []string) (overrides *Store, skipped []string) {
	overrides = New()
	for _, token := range tokens {
		m := overridePattern.FindStringSubmatch(token)
		if m == nil {
			skipped = append(skipped, token)
			continue
		}
		overrides.Set(m[1], m[2])
	}
	return overrides, skipped
}
