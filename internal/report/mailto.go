package report

import (
	"net/url"
	"strings"
)

// MailtoLink builds a client-side compose URI for an outreach draft. Pure
// string construction, no network call.
func MailtoLink(to, subject, body string) string {
	params := url.Values{}
	if subject != "" {
		params.Set("subject", subject)
	}
	if body != "" {
		params.Set("body", body)
	}

	link := "mailto:" + url.QueryEscape(to)
	if encoded := params.Encode(); encoded != "" {
		// mailto expects %20 for spaces, not +.
		link += "?" + strings.ReplaceAll(encoded, "+", "%20")
	}
	return link
}
