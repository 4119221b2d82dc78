package scenario

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// DefaultCompany stands in for a blank target company
	DefaultCompany = "Your Organization"

	fallbackLabel = "Phishing Template"
)

// Identity is a sender display name and address
type Identity struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// String formats the identity as an envelope sender, e.g. "IT Support <support@it-helpdesk.com>"
func (i Identity) String() string {
	return i.Name + " <" + i.Address + ">"
}

var fallbackSender = Identity{Name: "System Administrator", Address: "noreply@company.com"}

var labels = map[string]string{
	"password_reset":       "Password Reset",
	"urgent_action":        "Urgent Action Required",
	"account_verification": "Account Verification",
	"security_alert":       "Security Alert",
	"document_share":       "Document Shared",
	"invoice":              "Invoice/Payment",
	"it_support":           "IT Support",
	"hr_announcement":      "HR Announcement",
}

var senders = map[string]Identity{
	"password_reset":       {Name: "Security Team", Address: "noreply@security-team.com"},
	"urgent_action":        {Name: "Security Alerts", Address: "alerts@company-security.com"},
	"account_verification": {Name: "Account Services", Address: "verify@account-services.com"},
	"security_alert":       {Name: "IT Security", Address: "security@it-department.com"},
	"document_share":       {Name: "Document Services", Address: "noreply@document-share.com"},
	"invoice":              {Name: "Accounts Payable", Address: "billing@accounts-payable.com"},
	"it_support":           {Name: "IT Support", Address: "support@it-helpdesk.com"},
	"hr_announcement":      {Name: "Human Resources", Address: "hr@human-resources.com"},
}

// Label returns the human readable name of a scenario
func Label(id string) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return fallbackLabel
}

// Sender returns a plausible sender identity for a scenario
func Sender(id string) Identity {
	if s, ok := senders[id]; ok {
		return s
	}
	return fallbackSender
}

// Company returns the target company, or DefaultCompany when blank
func Company(s string) string {
	if strings.TrimSpace(s) == "" {
		return DefaultCompany
	}
	return s
}

// TemplateName composes the name given to a generated template
func TemplateName(id, company string) string {
	return fmt.Sprintf("AI Generated - %s - %s", Label(id), Company(company))
}

// LandingPageName names the landing page created alongside a generated template
func LandingPageName(templateName string) string {
	return templateName + " - Landing Page"
}

// Known returns the recognised scenario ids in sorted order
func Known() []string {
	ids := make([]string, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
