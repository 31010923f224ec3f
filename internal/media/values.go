package media

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Rating is a scraped score such as an IMDb rating. Zero means unknown.
type Rating float64

func (r Rating) String() string {
	if r == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(r), 'f', 1, 64)
}

// ParseRating reads a scraped rating, returning zero on anything unparsable.
func ParseRating(s string) Rating {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Rating(f)
}

// Votes is a vote count. Zero means unknown.
type Votes int

// String renders the compact form: 950, 12k, 13k (half rounds up).
func (v Votes) String() string {
	n := int(v)
	switch {
	case n == 0:
		return ""
	case n < 1000:
		return strconv.Itoa(n)
	case n%1000 < 500:
		return strconv.Itoa(n/1000) + "k"
	default:
		return strconv.Itoa(n/1000+1) + "k"
	}
}

// Full renders the count with thousands separators.
func (v Votes) Full() string {
	if v == 0 {
		return ""
	}
	return humanize.Comma(int64(v))
}

// ParseVotes reads counts rendered like "(123 456)".
func ParseVotes(s string) Votes {
	s = strings.NewReplacer("(", "", ")", "", " ", "", " ", "").Replace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return Votes(n)
}

var leadingNumber = regexp.MustCompile(`^\s*(\d+)`)

// Duration is the raw runtime text, e.g. "128 мин.". Empty means unknown.
type Duration string

func (d Duration) String() string {
	return strings.TrimSpace(string(d))
}

// Minutes returns the leading number of the runtime text, or 0.
func (d Duration) Minutes() int {
	m := leadingNumber.FindStringSubmatch(string(d))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

var yearToken = regexp.MustCompile(`\b(\d{4})\b`)

// ReleaseDate is the raw release text, e.g. "2 ноября 2019 года".
type ReleaseDate string

func (d ReleaseDate) String() string {
	return strings.TrimSpace(string(d))
}

// Year returns the first four digit token, or 0.
func (d ReleaseDate) Year() int {
	m := yearToken.FindStringSubmatch(string(d))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
