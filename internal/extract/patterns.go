package extract

import (
	"regexp"
	"strings"
)

var (
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	aadhaarRe = regexp.MustCompile(`\b\d{4} ?\d{4} ?\d{4}\b`)
	panRe     = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
	phoneRe   = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?|\b\d{1,3}[\s-])?(\d{10}|\d{3}[\s-]\d{3}[\s-]\d{4})\b`)
	pincodeRe = regexp.MustCompile(`\b\d{6}\b`)
	dobRe     = regexp.MustCompile(`(?i)(?:\bDOB|\bDate of Birth|\bD\.O\.B\.?)[:\s-]*(\d{2}/\d{2}/\d{4}|\d{2}-\d{2}-\d{4}|\d{4}-\d{2}-\d{2})`)
)

// pattern recognizes one high-confidence value shape anywhere in a document.
type pattern struct {
	key  string
	find func(text string) (string, bool)
}

var patterns = []pattern{
	{key: "email", find: findEmail},
	{key: "aadhaar_number", find: findAadhaar},
	{key: "pan_number", find: findPAN},
	{key: "mobile_number", find: findPhone},
	{key: "pincode", find: findPincode},
	{key: "date_of_birth", find: findDOB},
}

func findEmail(text string) (string, bool) {
	m := emailRe.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

func findAadhaar(text string) (string, bool) {
	for _, m := range aadhaarRe.FindAllString(text, -1) {
		digits := strings.ReplaceAll(m, " ", "")
		if len(digits) == 12 {
			return digits, true
		}
	}
	return "", false
}

func findPAN(text string) (string, bool) {
	m := panRe.FindString(text)
	return m, m != ""
}

// findPhone returns the last ten digits of the first phone-shaped number.
// A candidate directly preceded by a digit or "+" is part of a longer number
// and is skipped.
func findPhone(text string) (string, bool) {
	for _, loc := range phoneRe.FindAllStringSubmatchIndex(text, -1) {
		start := loc[0]
		if start > 0 {
			if c := text[start-1]; (c >= '0' && c <= '9') || c == '+' {
				continue
			}
		}
		digits := keepDigits(text[loc[2]:loc[3]])
		if len(digits) < 10 {
			continue
		}
		return digits[len(digits)-10:], true
	}
	return "", false
}

func findPincode(text string) (string, bool) {
	m := pincodeRe.FindString(text)
	return m, m != ""
}

func findDOB(text string) (string, bool) {
	m := dobRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func keepDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
