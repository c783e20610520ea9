// Package enrichment turns collected analytics events into warehouse-ready
// enriched events.
//
// Enrichment is a left fold of independent classification rules over a copy
// of the incoming event. Each rule sees the fields produced by the rules
// before it and contributes a set of new fields. A failing rule contributes
// nothing; a failure of the fold itself yields the original event. The
// result is always the best available version of the event, never an error.
package enrichment

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/models"
)

// FieldEnrichmentTimestamp records when the event passed through the enricher.
const FieldEnrichmentTimestamp = "enrichment_timestamp"

// Rule is a single classification step. Apply returns the fields to merge
// into the event, or nil when the rule does not apply.
type Rule struct {
	Name  string
	Apply func(ev models.Event) (models.Event, error)
}

// Enricher applies the ordered enrichment rules to events.
type Enricher struct {
	rules   []Rule
	locator GeoLocator
	now     func() time.Time
	logger  *logrus.Entry
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithGeoLocator replaces the placeholder geolocation lookup.
func WithGeoLocator(locator GeoLocator) Option {
	return func(e *Enricher) {
		if locator != nil {
			e.locator = locator
		}
	}
}

// WithClock sets the time source used for enrichment and default timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used for rule failures.
func WithLogger(logger *logrus.Entry) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEnricher creates an enricher with the standard rule set.
func NewEnricher(opts ...Option) *Enricher {
	e := &Enricher{
		locator: NewStaticLocator(),
		now:     time.Now,
		logger:  logrus.WithField("component", "enricher"),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.rules = []Rule{
		{Name: "url", Apply: analyzeURL},
		{Name: "user_agent", Apply: analyzeUserAgent},
		{Name: "geolocation", Apply: e.geolocate},
		{Name: "session", Apply: analyzeSession},
		{Name: "attribution", Apply: analyzeAttribution},
		{Name: "content", Apply: categorizeContent},
		{Name: "engagement", Apply: calculateEngagement},
	}

	return e
}

// Rules returns the names of the rules in application order.
func (e *Enricher) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Enrich returns the enriched form of raw. raw itself is never modified.
// If enrichment as a whole fails, raw is returned unchanged.
func (e *Enricher) Enrich(raw models.Event) (enriched models.Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"event_id": raw.String(models.FieldEventID),
				"error":    fmt.Sprint(r),
			}).Error("Event enrichment failed, returning original event")
			enriched = raw
		}
	}()

	out := raw.Clone()
	out[FieldEnrichmentTimestamp] = models.FormatTimestamp(e.now())

	for _, rule := range e.rules {
		out.Merge(e.apply(rule, out))
	}

	return e.clean(out)
}

// apply runs a single rule, converting errors and panics into an empty
// contribution.
func (e *Enricher) apply(rule Rule, ev models.Event) (fields models.Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logRuleFailure(rule, ev, fmt.Errorf("panic: %v", r))
			fields = nil
		}
	}()

	fields, err := rule.Apply(ev)
	if err != nil {
		e.logRuleFailure(rule, ev, err)
		return nil
	}
	return fields
}

func (e *Enricher) logRuleFailure(rule Rule, ev models.Event, err error) {
	e.logger.WithFields(logrus.Fields{
		"rule":     rule.Name,
		"event_id": ev.String(models.FieldEventID),
		"error":    err.Error(),
	}).Warn("Enrichment rule failed")
}
