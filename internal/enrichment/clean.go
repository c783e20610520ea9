package enrichment

import "url-event-pipeline/internal/models"

var stringLimits = []struct {
	field string
	limit int
}{
	{models.FieldURL, models.MaxURLLength},
	{models.FieldPageTitle, models.MaxPageTitleLength},
	{models.FieldUserAgent, models.MaxUserAgentLength},
	{models.FieldReferrer, models.MaxReferrerLength},
}

// clean strips nil fields, restores defaults for the required fields and
// truncates strings to the warehouse column limits.
func (e *Enricher) clean(ev models.Event) models.Event {
	for k, v := range ev {
		if v == nil {
			delete(ev, k)
		}
	}

	defaults := []struct {
		field string
		value string
	}{
		{models.FieldEventID, "unknown"},
		{models.FieldTimestamp, models.FormatTimestamp(e.now())},
		{models.FieldEventType, models.EventTypePageView},
		{models.FieldURL, ""},
		{models.FieldUserID, ""},
		{models.FieldSessionID, ""},
	}
	for _, d := range defaults {
		if !ev.Has(d.field) {
			ev[d.field] = d.value
		}
	}

	for _, l := range stringLimits {
		if s, ok := ev[l.field].(string); ok {
			ev[l.field] = models.Truncate(s, l.limit)
		}
	}

	return ev
}
