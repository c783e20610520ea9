package enrichment

import (
	"strings"

	"url-event-pipeline/internal/models"
)

func analyzeSession(ev models.Event) (models.Event, error) {
	return models.Event{
		"has_session_id":            ev.Has(models.FieldSessionID),
		"has_user_id":               ev.Has(models.FieldUserID),
		"is_new_session":            strings.HasPrefix(ev.String(models.FieldSessionID), newSessionPrefix),
		"is_new_user":               strings.HasPrefix(ev.String(models.FieldUserID), newUserPrefix),
		"session_duration_estimate": 0,
		"is_bounce_candidate":       ev.String(models.FieldEventType) == models.EventTypePageView,
	}, nil
}

func analyzeAttribution(ev models.Event) (models.Event, error) {
	referrer := strings.ToLower(ev.String(models.FieldReferrer))
	medium := strings.ToLower(ev.String(models.FieldUTMMedium))

	hasUTM := false
	for _, f := range attributionUTMFields {
		if ev.Has(f) {
			hasUTM = true
			break
		}
	}

	return models.Event{
		"has_utm_params":    hasUTM,
		"traffic_source":    trafficSource(ev),
		"campaign_type":     classify(medium, campaignTypeRules, "other"),
		"is_direct_traffic": !ev.Has(models.FieldReferrer) && !ev.Has(models.FieldUTMSource) && !ev.Has(models.FieldUTMMedium),
		"is_organic_search": containsAny(referrer, searchEngineDomains...) && !ev.Has(models.FieldUTMSource),
		"is_paid_search":    paidSearchMediums[medium] || strings.Contains(ev.String("url_query"), "gclid"),
		"is_social_traffic": containsAny(referrer, socialDomains...),
		"is_email_traffic":  medium == "email",
		"referrer_domain":   hostOf(ev.String(models.FieldReferrer)),
	}, nil
}

func trafficSource(ev models.Event) string {
	switch {
	case ev.Has(models.FieldUTMSource):
		return ev.String(models.FieldUTMSource)
	case ev.Has(models.FieldReferrer):
		return "referral"
	default:
		return "direct"
	}
}

// categorizeContent classifies the page from the path produced by the URL
// rule. Events without a URL are classified as the homepage.
func categorizeContent(ev models.Event) (models.Event, error) {
	path := ev.String("url_path")
	lower := strings.ToLower(path)

	return models.Event{
		"content_category":    categorizePageType(path),
		"content_subcategory": defaultSubcategory,
		"is_homepage":         homepagePaths[path],
		"is_product_page":     containsAny(lower, productPagePaths...),
		"is_category_page":    containsAny(lower, categoryPagePaths...),
		"is_search_page":      strings.Contains(lower, "/search") || strings.Contains(ev.String("url_query"), "q="),
		"is_checkout_page":    containsAny(lower, checkoutPagePaths...),
		"is_account_page":     containsAny(lower, accountPagePaths...),
		"page_depth":          ev.Int("path_depth"),
		"has_page_title":      ev.Has(models.FieldPageTitle),
	}, nil
}

func calculateEngagement(ev models.Event) (models.Event, error) {
	eventType := ev.StringOr(models.FieldEventType, models.EventTypePageView)
	path := strings.ToLower(ev.String("url_path"))

	value, ok := eventValues[eventType]
	if !ok {
		value = defaultEventValue
	}

	interaction, ok := interactionTypes[eventType]
	if !ok {
		interaction = defaultInteraction
	}

	conversion := "low"
	if containsAny(path, highIntentPaths...) {
		conversion = "high"
	}

	return models.Event{
		"event_value":          value,
		"engagement_score":     engagementScore(ev),
		"conversion_potential": conversion,
		"user_intent":          classify(path, userIntentRules, "general"),
		"interaction_type":     interaction,
	}, nil
}

// engagementScore relies on the flags set by the session and attribution
// rules.
func engagementScore(ev models.Event) int {
	score := 0
	if ev.Bool("has_session_id") {
		score++
	}
	if ev.String(models.FieldEventType) != models.EventTypePageView {
		score += 2
	}
	if ev.Bool("has_utm_params") {
		score++
	}
	return score
}
