package macros

import (
	"bytes"
	"text/template"
)

// EndpointTemplateParams specifies the macros available to bidder endpoint templates.
type EndpointTemplateParams struct {
	Host        string
	PublisherID string
	ZoneID      string
	AccountID   string
	AdUnit      string
	MediaType   string
}

// UserSyncTemplateParams specifies the macros available to user sync URL templates.
type UserSyncTemplateParams struct {
	GDPR        string
	GDPRConsent string
	USPrivacy   string
	RedirectURL string
}

// ResolveMacros resolves macros in the given template with the provided params.
func ResolveMacros(aTemplate *template.Template, params interface{}) (string, error) {
	strBuf := bytes.Buffer{}

	if err := aTemplate.Execute(&strBuf, params); err != nil {
		return "", err
	}

	return strBuf.String(), nil
}
