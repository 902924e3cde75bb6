package security

import (
	"fmt"
	"net/url"
	"strings"
)

// The detector is a heuristic substring filter, not a parser. Legitimate
// text containing these fragments (a lesson titled "Select your goals") is
// rejected too; that false-positive risk is documented, accepted behavior.
var (
	sqlFragments    = []string{"union", "select", "insert", "update", "delete", "drop", "create", "alter"}
	scriptFragments = []string{"<script", "javascript:", "onload", "onerror", "onclick"}
)

// SuspiciousReasons scans every parameter value case-insensitively against
// the SQL and script injection fragment lists and returns one reason per
// matching parameter and category. An empty result means the input is clean.
func SuspiciousReasons(params url.Values) []string {
	var reasons []string

	for key, values := range params {
		for _, value := range values {
			lower := strings.ToLower(value)

			for _, fragment := range sqlFragments {
				if strings.Contains(lower, fragment) {
					reasons = append(reasons, fmt.Sprintf("potential SQL injection in %s", key))
					break
				}
			}
			for _, fragment := range scriptFragments {
				if strings.Contains(lower, fragment) {
					reasons = append(reasons, fmt.Sprintf("potential XSS in %s", key))
					break
				}
			}
		}
	}

	return reasons
}
