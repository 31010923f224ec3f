// Package decrypt recovers stream URL lists from the obfuscated payload the
// site returns. The payload is Base64 text interleaved with "trash codes":
// Base64 renderings of every 2 to 4 symbol sequence over a fixed alphabet.
package decrypt

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
)

const (
	marker    = "#h"
	separator = "//_//"
)

var alphabet = []string{"@", "#", "!", "^", "$"}

// tokens is the junk table in enumeration order: every length-2 sequence,
// then length-3, then length-4 (25 + 125 + 625 entries).
var tokens = sync.OnceValue(func() []string {
	var out []string
	for n := 2; n <= 4; n++ {
		for _, combo := range product(alphabet, n) {
			enc := base64.StdEncoding.EncodeToString([]byte(strings.Join(combo, "")))
			out = append(out, strings.ReplaceAll(enc, "\n", ""))
		}
	}
	return out
})

// removalOrder walks the table longest class first. A length-4 token starts
// with a length-3 token, so stripping the shorter class first leaves a
// dangling one-byte group behind.
var removalOrder = sync.OnceValue(func() []string {
	all := tokens()
	out := make([]string, 0, len(all))
	out = append(out, all[25+125:]...)
	out = append(out, all[25:25+125]...)
	out = append(out, all[:25]...)
	return out
})

// TrashCodes returns a copy of the junk table in enumeration order.
func TrashCodes() []string {
	return append([]string(nil), tokens()...)
}

// Decode strips the marker, separators and every trash code from payload and
// Base64-decodes the remainder. Missing padding is tolerated.
func Decode(payload string) (string, error) {
	s := strings.ReplaceAll(payload, marker, "")
	s = strings.Join(strings.Split(s, separator), "")
	for _, tok := range removalOrder() {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.TrimRight(strings.TrimSpace(s), "=")

	out, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decoding stream payload: %w", err)
	}
	return string(out), nil
}

// product is the Cartesian power of elems, in lexicographic order of
// positions (repetition allowed).
func product(elems []string, repeat int) [][]string {
	result := [][]string{{}}
	for i := 0; i < repeat; i++ {
		next := make([][]string, 0, len(result)*len(elems))
		for _, prefix := range result {
			for _, e := range elems {
				combo := make([]string, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, e))
			}
		}
		result = next
	}
	return result
}
