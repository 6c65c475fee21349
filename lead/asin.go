package lead

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	amazonURLRE = regexp.MustCompile(`(?i)https?://(?:www\.)?amazon\.[^\s)>\]]+`)
	asinTokenRE = regexp.MustCompile(`(?i)\b(B0[A-Z0-9]{8})\b`)
	asinExactRE = regexp.MustCompile(`^[A-Z0-9]{10}$`)

	dpPathRE = regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})(?:/|$)`)
	gpPathRE = regexp.MustCompile(`(?i)/gp/(?:product|aw/d)/([A-Z0-9]{10})(?:/|$)`)
)

// AmazonURLs returns every Amazon product URL in the text, in order.
func AmazonURLs(text string) []string {
	return amazonURLRE.FindAllString(text, -1)
}

// ValidASIN reports whether s is exactly a 10-character ASIN.
func ValidASIN(s string) bool {
	return asinExactRE.MatchString(s)
}

// ASINsFromText returns all bare ASIN tokens in the text, uppercased.
func ASINsFromText(text string) []string {
	var asins []string
	for _, m := range asinTokenRE.FindAllStringSubmatch(text, -1) {
		asins = append(asins, strings.ToUpper(m[1]))
	}
	return asins
}

// ASINFromURL pulls the ASIN out of an Amazon product URL. It understands
// /dp/ and /gp/product/ style paths plus an asin query parameter. Returns
// "" when the URL carries none.
func ASINFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	if m := dpPathRE.FindStringSubmatch(parsed.Path); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := gpPathRE.FindStringSubmatch(parsed.Path); m != nil {
		return strings.ToUpper(m[1])
	}

	query := parsed.Query()
	values := query["asin"]
	if len(values) == 0 {
		values = query["ASIN"]
	}
	if len(values) > 0 {
		candidate := strings.ToUpper(strings.TrimSpace(values[0]))
		if ValidASIN(candidate) {
			return candidate
		}
	}
	return ""
}

// ASINsFromURLs maps each URL to its ASIN, skipping URLs without one.
func ASINsFromURLs(urls []string) []string {
	var asins []string
	for _, u := range urls {
		if asin := ASINFromURL(u); asin != "" {
			asins = append(asins, asin)
		}
	}
	return asins
}

// DedupeOrdered removes repeats while preserving first-seen order.
func DedupeOrdered(asins []string) []string {
	seen := make(map[string]bool, len(asins))
	var out []string
	for _, asin := range asins {
		if !seen[asin] {
			seen[asin] = true
			out = append(out, asin)
		}
	}
	return out
}
