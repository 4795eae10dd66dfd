package enrich

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"

	"github.com/sells-group/leadgen-cli/internal/normalize"
)

// PageFacts is everything usable extracted from one crawled page.
type PageFacts struct {
	Emails    []string
	Phones    []string
	Contacts  []normalize.RawContact
	TechStack []string
	Language  string
	Text      string
}

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// techSignatures maps markup fingerprints to tech-stack names. Matched
// against script/link URLs and the meta generator tag.
var techSignatures = map[string]string{
	"wp-content":     "WordPress",
	"wp-includes":    "WordPress",
	"shopify":        "Shopify",
	"squarespace":    "Squarespace",
	"wix.com":        "Wix",
	"hubspot":        "HubSpot",
	"marketo":        "Marketo",
	"react":          "React",
	"next/static":    "Next.js",
	"_next/":         "Next.js",
	"vue":            "Vue.js",
	"angular":        "Angular",
	"gatsby":         "Gatsby",
	"webflow":        "Webflow",
	"cloudflare":     "Cloudflare",
	"googletagmanag": "Google Tag Manager",
	"intercom":       "Intercom",
	"stripe":         "Stripe",
	"salesforce":     "Salesforce",
	"drupal":         "Drupal",
}

// contactSelectors locate person cards on team/about pages. Kept loose on
// purpose; SanitizeContact rejects the junk this inevitably picks up.
var contactSelectors = []string{
	".team-member", ".team_member", ".member", ".person", ".staff-member",
	".profile-card", ".employee", "[class*='team-card']",
}

// ExtractFacts parses page HTML and pulls out emails, phones, contact
// cards, tech fingerprints, and detected language.
func ExtractFacts(html string) PageFacts {
	facts := PageFacts{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return facts
	}

	seenEmail := make(map[string]bool)
	addEmail := func(raw string) {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" || seenEmail[email] || normalize.ShouldIgnoreEmail(email) {
			return
		}
		seenEmail[email] = true
		facts.Emails = append(facts.Emails, email)
	}

	doc.Find("a[href^='mailto:']").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		addEmail(addr)
	})

	seenPhone := make(map[string]bool)
	doc.Find("a[href^='tel:']").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		phone := normalize.NormalizePhoneDigits(strings.TrimPrefix(href, "tel:"))
		if phone != "" && !seenPhone[phone] {
			seenPhone[phone] = true
			facts.Phones = append(facts.Phones, phone)
		}
	})

	facts.Contacts = extractContactCards(doc)

	facts.TechStack = extractTechStack(doc)

	// Strip non-content nodes before text extraction so the language
	// detector sees prose, not javascript.
	doc.Find("script, style, noscript").Remove()
	facts.Text = strings.Join(strings.Fields(doc.Text()), " ")

	for _, m := range emailRe.FindAllString(facts.Text, 10) {
		addEmail(m)
	}

	if sample := languageSample(facts.Text); sample != "" {
		info := whatlanggo.Detect(sample)
		if info.IsReliable() {
			facts.Language = info.Lang.String()
		}
	}

	return facts
}

// extractContactCards walks known person-card selectors and pairs the first
// heading with the first role-looking line.
func extractContactCards(doc *goquery.Document) []normalize.RawContact {
	var contacts []normalize.RawContact
	seen := make(map[string]bool)

	for _, selector := range contactSelectors {
		doc.Find(selector).Each(func(_ int, card *goquery.Selection) {
			raw := normalize.RawContact{
				Name:  strings.TrimSpace(card.Find("h1, h2, h3, h4, .name").First().Text()),
				Title: strings.TrimSpace(card.Find(".title, .role, .position, p").First().Text()),
			}
			if href, ok := card.Find("a[href^='mailto:']").First().Attr("href"); ok {
				raw.Email = strings.TrimPrefix(href, "mailto:")
			}
			if href, ok := card.Find("a[href*='linkedin.com']").First().Attr("href"); ok {
				raw.LinkedIn = href
			}
			if href, ok := card.Find("a[href^='tel:']").First().Attr("href"); ok {
				raw.Phone = strings.TrimPrefix(href, "tel:")
			}

			key := strings.ToLower(raw.Name + "|" + raw.Email)
			if key == "|" || seen[key] {
				return
			}
			seen[key] = true
			contacts = append(contacts, raw)
		})
	}
	return contacts
}

func extractTechStack(doc *goquery.Document) []string {
	var hits []string
	seen := make(map[string]bool)
	match := func(s string) {
		lower := strings.ToLower(s)
		for sig, name := range techSignatures {
			if strings.Contains(lower, sig) && !seen[name] {
				seen[name] = true
				hits = append(hits, name)
			}
		}
	}

	if gen, ok := doc.Find("meta[name='generator']").Attr("content"); ok {
		match(gen)
	}
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok {
			match(src)
		}
	})
	doc.Find("link[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			match(href)
		}
	})

	return normalize.NormalizeTechStack(hits)
}

// languageSample takes the first ~100 words; whatlanggo is unreliable on
// very short fragments, so anything under 5 words is skipped entirely.
func languageSample(text string) string {
	words := strings.Fields(text)
	if len(words) < 5 {
		return ""
	}
	if len(words) > 100 {
		words = words[:100]
	}
	return strings.Join(words, " ")
}
