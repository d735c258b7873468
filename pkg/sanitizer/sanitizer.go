package sanitizer

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// supportedRegions are tried in order for numbers given without a country
// code.
var supportedRegions = []string{
	"IN",
	"US",
}

// TrimAndNormalize trims s and collapses inner whitespace runs to one space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeText is used for names, locations and free-form messages.
func SanitizeText(input string) string {
	return Pipeline{stripControl, TrimAndNormalize}.Apply(input)
}

func SanitizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// SanitizeToken trims identifiers such as ids, license numbers and gateway
// references.
func SanitizeToken(input string) string {
	return strings.TrimSpace(input)
}

// SanitizePhone returns phone in E.164 form, or "" when it cannot be parsed.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}

// SanitizeImage keeps site-relative paths and normalizes absolute URLs to
// https without a trailing slash.
func SanitizeImage(input string) string {
	s := strings.TrimSpace(input)
	if s == "" || strings.HasPrefix(s, "/") {
		return s
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	u.Scheme = "https"
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// SanitizeSlice applies strategy to each value and drops empties and
// duplicates, keeping first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
