package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamPageHTML = `<html>
<head>
	<title>Our Team</title>
	<meta name="generator" content="WordPress 6.4">
	<script src="/static/js/react.production.min.js"></script>
</head>
<body>
	<p>We are a full service roofing company proudly serving the greater
	Toronto area for over thirty years with quality workmanship.</p>
	<a href="mailto:info@acme.com">Email us</a>
	<a href="mailto:noreply@acme.com">Automated</a>
	<a href="tel:+1-416-555-0199">Call</a>
	<div class="team-member">
		<h3>Jane Smith</h3>
		<p class="role">Chief Executive Officer</p>
		<a href="mailto:jane@acme.com">jane@acme.com</a>
		<a href="https://linkedin.com/in/janesmith">LinkedIn</a>
	</div>
	<div class="team-member">
		<h3>Contact Us</h3>
	</div>
</body></html>`

func TestExtractFacts_Emails(t *testing.T) {
	facts := ExtractFacts(teamPageHTML)
	assert.Contains(t, facts.Emails, "info@acme.com")
	assert.Contains(t, facts.Emails, "jane@acme.com")
	assert.NotContains(t, facts.Emails, "noreply@acme.com")
}

func TestExtractFacts_Phones(t *testing.T) {
	facts := ExtractFacts(teamPageHTML)
	require.Len(t, facts.Phones, 1)
	assert.Equal(t, "+1 (416) 555-0199", facts.Phones[0])
}

func TestExtractFacts_ContactCards(t *testing.T) {
	facts := ExtractFacts(teamPageHTML)
	require.NotEmpty(t, facts.Contacts)

	jane := facts.Contacts[0]
	assert.Equal(t, "Jane Smith", jane.Name)
	assert.Equal(t, "Chief Executive Officer", jane.Title)
	assert.Equal(t, "jane@acme.com", jane.Email)
	assert.Equal(t, "https://linkedin.com/in/janesmith", jane.LinkedIn)
}

func TestExtractFacts_TechStack(t *testing.T) {
	facts := ExtractFacts(teamPageHTML)
	assert.Contains(t, facts.TechStack, "WordPress")
	assert.Contains(t, facts.TechStack, "React")
}

func TestExtractFacts_Language(t *testing.T) {
	facts := ExtractFacts(teamPageHTML)
	assert.Equal(t, "English", facts.Language)
}

func TestExtractFacts_ShortTextSkipsDetection(t *testing.T) {
	facts := ExtractFacts(`<html><body>hi there</body></html>`)
	assert.Empty(t, facts.Language)
}

func TestExtractFacts_RegexEmailsFromText(t *testing.T) {
	facts := ExtractFacts(`<html><body><p>Reach sales at sales@acme.com today.</p></body></html>`)
	assert.Contains(t, facts.Emails, "sales@acme.com")
}

func TestExtractFacts_EmptyHTML(t *testing.T) {
	facts := ExtractFacts("")
	assert.Empty(t, facts.Emails)
	assert.Empty(t, facts.Contacts)
}

func TestMergeFacts_Deduplicates(t *testing.T) {
	dst := PageFacts{Emails: []string{"info@acme.com"}, Language: "English"}
	mergeFacts(&dst, PageFacts{
		Emails:    []string{"INFO@acme.com", "jane@acme.com"},
		Language:  "French",
		TechStack: []string{"WordPress"},
	})

	assert.Equal(t, []string{"info@acme.com", "jane@acme.com"}, dst.Emails)
	assert.Equal(t, "English", dst.Language) // first detection wins
	assert.Equal(t, []string{"WordPress"}, dst.TechStack)
}
