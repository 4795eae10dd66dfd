// Package normalize cleans noisy scraped strings into canonical forms.
// Every function is total and side-effect-free: malformed input degrades to
// an empty or safe value instead of returning an error, so a bad field never
// aborts an extraction.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// knownConcatenations maps whitespace-stripped lowercase keys to their
// canonical spacing. Covers label text that scrapers glue together.
var knownConcatenations = map[string]string{
	"contactme":      "Contact me",
	"contactus":      "Contact us",
	"aboutus":        "About us",
	"ourteam":        "Our team",
	"meettheteam":    "Meet the team",
	"getintouch":     "Get in touch",
	"learnmore":      "Learn more",
	"readmore":       "Read more",
	"signup":         "Sign up",
	"login":          "Log in",
	"joinus":         "Join us",
	"workwithus":     "Work with us",
	"bookademo":      "Book a demo",
	"requestademo":   "Request a demo",
	"getstarted":     "Get started",
	"privacypolicy":  "Privacy policy",
	"termsofservice": "Terms of service",
}

// navLabels are navigation/boilerplate phrases that must never survive as a
// person name. Matched case-insensitively after normalization.
var navLabels = map[string]bool{
	"about":            true,
	"about us":         true,
	"team":             true,
	"our team":         true,
	"meet the team":    true,
	"contact":          true,
	"contact us":       true,
	"contact me":       true,
	"get in touch":     true,
	"careers":          true,
	"jobs":             true,
	"home":             true,
	"blog":             true,
	"news":             true,
	"services":         true,
	"products":         true,
	"pricing":          true,
	"privacy policy":   true,
	"terms of service": true,
	"terms":            true,
	"faq":              true,
	"support":          true,
	"help":             true,
	"log in":           true,
	"sign up":          true,
	"learn more":       true,
	"read more":        true,
}

// emailShape is a deliberately loose local@domain.tld check. The goal is to
// reject fragments, not to validate RFC 5322.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[a-zA-Z]{2,}$`)

// ignoredLocalParts flag automated senders that will never answer.
var ignoredLocalParts = []string{
	"noreply", "no-reply", "no_reply", "donotreply", "do-not-reply",
	"mailer-daemon", "postmaster", "bounce",
}

// ignoredDomains are placeholder or SaaS/CMS infrastructure domains that
// leak into scraped markup but identify no one at the target company.
var ignoredDomains = []string{
	"example.com", "example.org", "domain.com", "email.com",
	"yourdomain.com", "yourcompany.com",
	"wix.com", "wixpress.com", "squarespace.com", "sentry.io",
	"sentry-next.wixpress.com", "wordpress.com", "godaddy.com",
}

// techAliases maps lowercase tech-stack tokens to canonical names.
var techAliases = map[string]string{
	"react":      "React",
	"reactjs":    "React",
	"react.js":   "React",
	"vue":        "Vue.js",
	"vuejs":      "Vue.js",
	"vue.js":     "Vue.js",
	"angular":    "Angular",
	"angularjs":  "Angular",
	"next":       "Next.js",
	"nextjs":     "Next.js",
	"next.js":    "Next.js",
	"node":       "Node.js",
	"nodejs":     "Node.js",
	"node.js":    "Node.js",
	"golang":     "Go",
	"go":         "Go",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"mysql":      "MySQL",
	"mongo":      "MongoDB",
	"mongodb":    "MongoDB",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"aws":        "AWS",
	"gcp":        "Google Cloud",
	"azure":      "Azure",
	"wordpress":  "WordPress",
	"shopify":    "Shopify",
	"hubspot":    "HubSpot",
	"salesforce": "Salesforce",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"python":     "Python",
	"ruby":       "Ruby",
	"rails":      "Ruby on Rails",
	"php":        "PHP",
	"laravel":    "Laravel",
	"django":     "Django",
	"tailwind":   "Tailwind CSS",
	"gatsby":     "Gatsby",
	"svelte":     "Svelte",
}

// FixConcatenatedWords inserts word boundaries into strings that scrapers
// glued together: camel/Pascal case runs, hyphen/underscore separators, and
// a dictionary of known concatenations. Idempotent.
func FixConcatenatedWords(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := splitCamelCase(raw)
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)

	// Known concatenations win over mechanical splitting.
	key := strings.ToLower(stripWhitespace(s))
	if canonical, ok := knownConcatenations[key]; ok {
		return canonical
	}

	return collapseRepeats(strings.Fields(s))
}

// IsNavLabel reports whether the string is a navigation/boilerplate phrase
// rather than real content. Case-insensitive.
func IsNavLabel(raw string) bool {
	normalized := strings.ToLower(strings.TrimSpace(FixConcatenatedWords(raw)))
	return navLabels[normalized]
}

// ShouldIgnoreEmail reports whether a scraped email is not worth keeping.
// Fails closed: empty or malformed input is ignored.
func ShouldIgnoreEmail(raw string) bool {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return true
	}
	if !emailShape.MatchString(email) {
		return true
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]

	for _, p := range ignoredLocalParts {
		if strings.Contains(local, p) {
			return true
		}
	}
	for _, d := range ignoredDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

// NormalizeTechStack canonicalizes a list of tech-stack tokens via the alias
// table, falling back to title-casing unknown tokens. De-duplicates while
// preserving first-seen order.
func NormalizeTechStack(items []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, item := range items {
		token := strings.TrimSpace(item)
		if token == "" {
			continue
		}
		canonical, ok := techAliases[strings.ToLower(token)]
		if !ok {
			canonical = titleCaser.String(strings.ToLower(token))
		}
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	return out
}

// NormalizeTechStackString splits a delimiter-separated token string and
// normalizes it like NormalizeTechStack.
func NormalizeTechStackString(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	items := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '/'
	})
	return NormalizeTechStack(items)
}

// NormalizePhoneDigits strips non-digits and formats NANP numbers. Numbers
// that are neither 10 nor 11 digits get a "+" international prefix.
func NormalizePhoneDigits(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case d == "":
		return ""
	case len(d) == 11 && d[0] == '1':
		return "+1 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	case len(d) == 10:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	default:
		return "+" + d
	}
}

// NormalizeNameCandidate cleans a scraped person-name candidate. Navigation
// labels are rejected outright (empty result), not merely down-weighted.
func NormalizeNameCandidate(raw string) string {
	fixed := FixConcatenatedWords(raw)
	if fixed == "" || IsNavLabel(fixed) {
		return ""
	}
	collapsed := collapseRepeats(strings.Fields(fixed))
	return titleCaser.String(strings.ToLower(collapsed))
}

// RawContact is an unsanitized contact fragment as extracted from a page.
type RawContact struct {
	Name     string
	Email    string
	Phone    string
	Title    string
	LinkedIn string
}

// Contact is a sanitized contact with per-field normalization applied.
type Contact struct {
	Name     string
	Email    string
	Phone    string
	Title    string
	LinkedIn string
}

// SanitizeContact applies per-field normalization and rejects the contact
// entirely (nil) when no usable name, email, or phone survives cleaning.
func SanitizeContact(raw RawContact) *Contact {
	c := &Contact{
		Name:     NormalizeNameCandidate(raw.Name),
		Phone:    NormalizePhoneDigits(raw.Phone),
		Title:    strings.TrimSpace(raw.Title),
		LinkedIn: strings.TrimSpace(raw.LinkedIn),
	}

	if email := strings.ToLower(strings.TrimSpace(raw.Email)); !ShouldIgnoreEmail(email) {
		c.Email = email
	}

	// No identifying or reachable information: not worth keeping.
	if c.Name == "" && c.Email == "" && c.Phone == "" {
		return nil
	}
	return c
}

// splitCamelCase inserts a space at every lowercase→uppercase transition.
func splitCamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapseRepeats joins tokens with single spaces, dropping consecutive
// case-insensitive duplicates.
func collapseRepeats(tokens []string) string {
	var out []string
	for _, tok := range tokens {
		if len(out) > 0 && strings.EqualFold(out[len(out)-1], tok) {
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
