// Package normalizers provides identifier normalization for company matching
package normalizers

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", strings.ToLower)
	Register("trim", strings.TrimSpace)
	Register("ncompany", CompanyName)
	Register("nwebsite", Website)
	Register("nlinkedin", LinkedIn)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// legalSuffixes are legal-entity and filler tokens that carry no identity
// signal in a company name
var legalSuffixes = map[string]bool{
	"inc":          true,
	"incorporated": true,
	"llc":          true,
	"llp":          true,
	"lp":           true,
	"ltd":          true,
	"limited":      true,
	"plc":          true,
	"gmbh":         true,
	"ag":           true,
	"sa":           true,
	"srl":          true,
	"bv":           true,
	"co":           true,
	"corp":         true,
	"corporation":  true,
	"company":      true,
	"holdings":     true,
	"group":        true,
	"solutions":    true,
	"services":     true,
	"technologies": true,
	"ventures":     true,
	"partners":     true,
}

// webmailDomains never identify a company; an email at one of these
// providers contributes nothing to the email-domain channel.
var webmailDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"yahoo.co.uk":    true,
	"ymail.com":      true,
	"hotmail.com":    true,
	"hotmail.co.uk":  true,
	"outlook.com":    true,
	"live.com":       true,
	"msn.com":        true,
	"icloud.com":     true,
	"me.com":         true,
	"aol.com":        true,
	"protonmail.com": true,
	"proton.me":      true,
	"gmx.com":        true,
	"zoho.com":       true,
	"mail.com":       true,
}

var domainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*(\.[a-z0-9][a-z0-9-]*)*\.[a-z]{2,}$`)

// EmailDomain extracts the lower-cased domain from an email address.
// Returns "" when the email is absent or malformed, or when the domain is
// a consumer webmail provider.
func EmailDomain(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return ""
	}
	domain := email[at+1:]
	if !domainPattern.MatchString(domain) {
		return ""
	}
	if webmailDomains[domain] {
		return ""
	}
	return domain
}

// CompanyName canonicalizes a company name: lower-case, strip punctuation,
// drop legal-entity suffix tokens, collapse whitespace.
// "Acme, Inc." and "acme inc" both reduce to "acme".
func CompanyName(name string) string {
	name = strings.ToLower(name)

	var cleaned strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			cleaned.WriteRune(r)
		}
	}

	tokens := strings.Fields(cleaned.String())
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if legalSuffixes[tok] {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

// Website canonicalizes a website URL to its bare domain: lower-case, strip
// scheme and www prefix, truncate at the first path or query separator.
func Website(url string) string {
	url = strings.ToLower(strings.TrimSpace(url))
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")
	if i := strings.IndexAny(url, "/?"); i >= 0 {
		url = url[:i]
	}
	return url
}

// LinkedIn canonicalizes a LinkedIn company URL to its handle: lower-case,
// strip scheme/host, keep the path segment after "company/", drop trailing
// separators. A bare handle passes through unchanged.
func LinkedIn(url string) string {
	url = strings.ToLower(strings.TrimSpace(url))
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")
	url = strings.TrimPrefix(url, "linkedin.com/")
	url = strings.TrimPrefix(url, "company/")
	if i := strings.IndexAny(url, "/?"); i >= 0 {
		url = url[:i]
	}
	return url
}
