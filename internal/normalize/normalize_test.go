package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixConcatenatedWords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"camel case", "JaneSmith", "Jane Smith"},
		{"pascal run", "VicePresidentSales", "Vice President Sales"},
		{"hyphens", "contact-us-today", "contact us today"},
		{"underscores", "our_team", "our team"},
		{"known concatenation", "contactme", "Contact me"},
		{"known concatenation spaced", "Contact Me", "Contact me"},
		{"duplicate tokens", "Team Team Page", "Team Page"},
		{"redundant whitespace", "  Jane   Smith ", "Jane Smith"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, FixConcatenatedWords(tt.input))
		})
	}
}

func TestFixConcatenatedWords_Idempotent(t *testing.T) {
	inputs := []string{
		"JaneSmith", "contactus", "privacy-policy", "Meet The Team",
		"getintouch", "Already Clean", "", "signup", "B2BServices",
	}
	for _, s := range inputs {
		once := FixConcatenatedWords(s)
		assert.Equal(t, once, FixConcatenatedWords(once), "input %q", s)
	}
}

func TestIsNavLabel(t *testing.T) {
	assert.True(t, IsNavLabel("Contact Us"))
	assert.True(t, IsNavLabel("ABOUT US"))
	assert.True(t, IsNavLabel("privacy policy"))
	assert.True(t, IsNavLabel("contactme"))
	assert.False(t, IsNavLabel("Jane Smith"))
	assert.False(t, IsNavLabel(""))
}

func TestShouldIgnoreEmail(t *testing.T) {
	tests := []struct {
		email  string
		ignore bool
	}{
		{"noreply@acme.com", true},
		{"no-reply@acme.com", true},
		{"donotreply@acme.io", true},
		{"jane@acme.com", false},
		{"jane.smith@acme.co.uk", false},
		{"info@example.com", true},
		{"hello@domain.com", true},
		{"support@wix.com", true},
		{"errors@sentry.io", true},
		{"team@shop.squarespace.com", true},
		{"not-an-email", true},
		{"missing@tld", true},
		{"", true},
		{"   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.ignore, ShouldIgnoreEmail(tt.email))
		})
	}
}

func TestNormalizeTechStack(t *testing.T) {
	got := NormalizeTechStack([]string{"reactjs", "React", "nodejs", "  ", "Postgres", "customtool"})
	assert.Equal(t, []string{"React", "Node.js", "PostgreSQL", "Customtool"}, got)
}

func TestNormalizeTechStackString(t *testing.T) {
	got := NormalizeTechStackString("react, vue; k8s | golang")
	assert.Equal(t, []string{"React", "Vue.js", "Kubernetes", "Go"}, got)

	assert.Nil(t, NormalizeTechStackString(""))
}

func TestNormalizePhoneDigits(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"1-555-867-5309", "+1 (555) 867-5309"},
		{"5558675309", "(555) 867-5309"},
		{"(555) 867-5309", "(555) 867-5309"},
		{"+44 20 7946 0958", "+442079460958"},
		{"ext. 12", "+12"},
		{"", ""},
		{"no digits here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expect, NormalizePhoneDigits(tt.input))
		})
	}
}

func TestNormalizeNameCandidate(t *testing.T) {
	assert.Equal(t, "", NormalizeNameCandidate("Contact Us"))
	assert.Equal(t, "", NormalizeNameCandidate("learn-more"))
	assert.Equal(t, "Jane Smith", NormalizeNameCandidate("JaneSmith"))
	assert.Equal(t, "Jane Smith", NormalizeNameCandidate("jane smith"))
	assert.Equal(t, "", NormalizeNameCandidate(""))
}

func TestSanitizeContact_RejectsEmptyContact(t *testing.T) {
	c := SanitizeContact(RawContact{
		Name:  "Contact Us",
		Email: "info@wix.com",
		Phone: "",
	})
	assert.Nil(t, c)
}

func TestSanitizeContact_KeepsUsableFields(t *testing.T) {
	c := SanitizeContact(RawContact{
		Name:     "JaneSmith",
		Email:    "Jane@Acme.com",
		Phone:    "1-555-867-5309",
		Title:    " VP of Sales ",
		LinkedIn: "https://linkedin.com/in/janesmith",
	})
	require.NotNil(t, c)
	assert.Equal(t, "Jane Smith", c.Name)
	assert.Equal(t, "jane@acme.com", c.Email)
	assert.Equal(t, "+1 (555) 867-5309", c.Phone)
	assert.Equal(t, "VP of Sales", c.Title)
}

func TestSanitizeContact_PhoneOnlyIsKept(t *testing.T) {
	c := SanitizeContact(RawContact{Phone: "5558675309"})
	require.NotNil(t, c)
	assert.Equal(t, "(555) 867-5309", c.Phone)
}
