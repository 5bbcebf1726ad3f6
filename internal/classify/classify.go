// Package classify decides whether a request comes from an automated
// client (search crawler or social-preview fetcher) that should receive a
// pre-rendered SEO document, or from an interactive browser.
//
// The decision is a case-insensitive substring match against a fixed token
// table.  It performs no I/O and never fails: an empty or garbled
// User-Agent is treated as a human.
package classify

import "strings"

// Tokens is the denylist, lower-case.  Order is irrelevant.
var Tokens = []string{
	// social preview fetchers
	"facebookexternalhit",
	"facebot",
	"twitterbot",
	"linkedinbot",
	"slackbot",
	"discordbot",
	"whatsapp",
	"telegrambot",
	"pinterest",
	"redditbot",
	"skypeuripreview",
	"embedly",
	"vkshare",
	"applebot",

	// search engines
	"googlebot",
	"bingbot",
	"yandex",
	"baiduspider",
	"duckduckbot",
	"slurp",
	"sogou",
	"exabot",
	"ia_archiver",
	"semrushbot",
	"ahrefsbot",

	// generic
	"bot",
	"crawler",
	"spider",
}

// IsAutomatedClient reports whether userAgent belongs to a crawler.  force
// wins over the header; internal tooling uses it to exercise bot mode from
// a browser.
func IsAutomatedClient(userAgent string, force bool) bool {
	if force {
		return true
	}
	if userAgent == "" {
		return false
	}
	ua := strings.ToLower(userAgent)
	for _, tok := range Tokens {
		if strings.Contains(ua, tok) {
			return true
		}
	}
	return false
}

// Class is the label used for metrics and logs.
func Class(automated bool) string {
	if automated {
		return "bot"
	}
	return "human"
}

// ForceValue reports whether a query or header value switches force mode
// on.  "1", "true", "yes", and "on" are accepted, case-insensitively.
func ForceValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
