package enrichment

import (
	"strings"
	"unicode/utf8"

	"url-event-pipeline/internal/models"
)

// analyzeUserAgent sniffs browser, operating system and device details from
// the user agent string. Matching is case-insensitive substring matching.
func analyzeUserAgent(ev models.Event) (models.Event, error) {
	ua := ev.String(models.FieldUserAgent)
	if ua == "" {
		return nil, nil
	}

	lower := strings.ToLower(ua)
	isBot := containsAny(lower, botKeywords...)

	return models.Event{
		"browser_name":        classify(lower, browserRules, "Other"),
		"browser_version":     unknownVersion,
		"os_name":             classify(lower, osRules, "Other"),
		"os_version":          unknownVersion,
		"device_type":         classify(lower, deviceTypeRules, "Desktop"),
		"device_brand":        classify(lower, deviceBrandRules, "Other"),
		"is_mobile":           containsAny(lower, mobileKeywords...),
		"is_tablet":           containsAny(lower, tabletKeywords...),
		"is_bot":              isBot,
		"supports_javascript": !isBot,
		"user_agent_length":   utf8.RuneCountInString(ua),
	}, nil
}
