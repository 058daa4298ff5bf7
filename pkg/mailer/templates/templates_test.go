package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() map[string]any {
	return ToMap(EmailData{
		Username:  "alice",
		Email:     "alice@example.com",
		AppName:   "contactbook",
		ActionURL: "https://example.com/confirm/tok",
		ExpiresIn: "24h0m0s",
	})
}

func TestRenderKnownTemplates(t *testing.T) {
	for _, name := range []string{ConfirmEmail, ResetPassword} {
		subject, text, html, err := Render(name, testData())
		require.NoError(t, err, name)
		assert.NotEmpty(t, subject, name)
		assert.Contains(t, text, "https://example.com/confirm/tok", name)
		assert.Contains(t, html, "https://example.com/confirm/tok", name)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", testData())
	assert.Error(t, err)
}
