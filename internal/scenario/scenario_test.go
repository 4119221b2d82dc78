package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetDefaults(t *testing.T) {
	assert.Equal(t, "Security Team <noreply@security-team.com>", Sender("password_reset").String())
	assert.Equal(t, "AI Generated - Password Reset - Your Organization", TemplateName("password_reset", ""))
	assert.Equal(t, "AI Generated - Password Reset - Your Organization", TemplateName("password_reset", "   "))
}

func TestUnknownScenarioFallsBack(t *testing.T) {
	assert.Equal(t, "Phishing Template", Label("pizza_party"))
	assert.Equal(t, "System Administrator <noreply@company.com>", Sender("pizza_party").String())
	assert.Equal(t, "AI Generated - Phishing Template - Acme", TemplateName("pizza_party", "Acme"))
}

func TestEveryScenarioHasSender(t *testing.T) {
	known := Known()
	assert.Len(t, known, 8)
	for _, id := range known {
		assert.NotEqual(t, fallbackLabel, Label(id), id)
		assert.NotEqual(t, fallbackSender, Sender(id), id)
	}
}

func TestLandingPageName(t *testing.T) {
	assert.Equal(t, "AI Generated - Invoice/Payment - Acme - Landing Page", LandingPageName(TemplateName("invoice", "Acme")))
}
