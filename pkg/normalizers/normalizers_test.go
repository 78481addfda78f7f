package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyName(t *testing.T) {
	// Legal-entity suffixes and punctuation carry no identity signal
	assert.Equal(t, "acme", CompanyName("Acme, Inc."))
	assert.Equal(t, "acme", CompanyName("acme inc"))
	assert.Equal(t, CompanyName("Acme, Inc."), CompanyName("acme inc"))

	assert.Equal(t, "northwind traders", CompanyName("Northwind Traders LLC"))
	assert.Equal(t, "initech", CompanyName("INITECH Corporation"))
	assert.Equal(t, "stark industries", CompanyName("Stark  Industries   Holdings"))
	assert.Equal(t, "", CompanyName(""))
	assert.Equal(t, "", CompanyName("Inc. LLC Ltd"))
}

func TestWebsite(t *testing.T) {
	assert.Equal(t, "acme.com", Website("https://www.acme.com/about?ref=nav"))
	assert.Equal(t, "acme.com", Website("http://acme.com"))
	assert.Equal(t, "acme.com", Website("ACME.COM/"))
	assert.Equal(t, "acme.co.uk", Website("www.acme.co.uk"))
	assert.Equal(t, "", Website(""))
}

func TestLinkedIn(t *testing.T) {
	assert.Equal(t, "acme-corp", LinkedIn("https://www.linkedin.com/company/acme-corp/"))
	assert.Equal(t, "acme-corp", LinkedIn("linkedin.com/company/acme-corp"))
	assert.Equal(t, "acme-corp", LinkedIn("acme-corp"))
	assert.Equal(t, "", LinkedIn(""))
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "acme.io", EmailDomain("user@acme.io"))
	assert.Equal(t, "acme.io", EmailDomain("  USER@ACME.IO  "))

	// Webmail providers never identify a company
	assert.Equal(t, "", EmailDomain("user@gmail.com"))
	assert.Equal(t, "", EmailDomain("user@outlook.com"))
	assert.Equal(t, "", EmailDomain("user@yahoo.co.uk"))

	// Malformed inputs yield the empty sentinel, never an error
	assert.Equal(t, "", EmailDomain(""))
	assert.Equal(t, "", EmailDomain("not-an-email"))
	assert.Equal(t, "", EmailDomain("@acme.io"))
	assert.Equal(t, "", EmailDomain("user@"))
	assert.Equal(t, "", EmailDomain("user@nodot"))
}

func TestApplyRegistry(t *testing.T) {
	assert.Equal(t, "acme", Apply("Acme, Inc.", "ncompany"))
	assert.Equal(t, "acme.com", Apply("https://acme.com", "nwebsite"))
	// Unknown normalizer passes the value through
	assert.Equal(t, "Acme", Apply("Acme", "does-not-exist"))
}
