package enrich

import (
	"regexp"

	"github.com/mileusna/useragent"
)

// UnknownValue is reported when neither detection matches.
const UnknownValue = "Unknown"

// Browser signatures are matched in order and the first match wins.
// Chromium-based agents all carry a "Safari" token, so Edge, Opera and
// Chrome must be checked before the Version/..Safari pattern.
var browserSignatures = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"Edge", regexp.MustCompile(`Edge?\/[0-9.]+`)},
	{"Opera", regexp.MustCompile(`OPR\/[0-9.]+`)},
	{"Chrome", regexp.MustCompile(`Chrome\/[0-9.]+`)},
	{"Firefox", regexp.MustCompile(`Firefox\/[0-9.]+`)},
	{"Safari", regexp.MustCompile(`Version\/[0-9.]+.*Safari`)},
}

// DetectBrowser classifies a User-Agent string into a browser family.
func DetectBrowser(ua string) string {
	for _, sig := range browserSignatures {
		if sig.pattern.MatchString(ua) {
			return sig.name
		}
	}

	return UnknownValue
}

// DetectPlatform extracts the device platform/OS name from a User-Agent.
func DetectPlatform(ua string) string {
	parsed := useragent.Parse(ua)
	if parsed.OS != "" {
		return parsed.OS
	}

	return UnknownValue
}
