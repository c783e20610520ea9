package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is a loosely typed analytics event as it travels through the
// pipeline. Collected (raw) and enriched events share this representation:
// enrichment only adds keys.
type Event map[string]any

// Core event fields
const (
	FieldEventID     = "event_id"
	FieldTimestamp   = "timestamp"
	FieldURL         = "url"
	FieldUserID      = "user_id"
	FieldSessionID   = "session_id"
	FieldEventType   = "event_type"
	FieldUserAgent   = "user_agent"
	FieldIPAddress   = "ip_address"
	FieldReferrer    = "referrer"
	FieldPageTitle   = "page_title"
	FieldUTMSource   = "utm_source"
	FieldUTMMedium   = "utm_medium"
	FieldUTMCampaign = "utm_campaign"
	FieldUTMTerm     = "utm_term"
	FieldUTMContent  = "utm_content"
)

// Event type values with special meaning in enrichment
const (
	EventTypePageView   = "page_view"
	EventTypeLinkClick  = "link_click"
	EventTypeFormSubmit = "form_submit"
	EventTypePurchase   = "purchase"
	EventTypeSignup     = "signup"
	EventTypeScroll     = "scroll"
	EventTypeDownload   = "download"
)

// Warehouse column limits, in characters
const (
	MaxURLLength       = 2048
	MaxPageTitleLength = 500
	MaxUserAgentLength = 1000
	MaxReferrerLength  = 2048
)

// CustomFieldPrefix marks passthrough fields supplied by the tracking client.
const CustomFieldPrefix = "custom_"

// UTMFields lists the campaign attribution fields in collection order.
var UTMFields = []string{FieldUTMSource, FieldUTMMedium, FieldUTMCampaign, FieldUTMTerm, FieldUTMContent}

// TimestampLayout is the ISO-8601 layout used for generated timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// String returns the value of key when it holds a string, and "" otherwise.
func (e Event) String(key string) string {
	if s, ok := e[key].(string); ok {
		return s
	}
	return ""
}

// StringOr returns the string value of key, or fallback when the key is
// absent or not a string. An explicit empty string is returned as-is.
func (e Event) StringOr(key, fallback string) string {
	v, ok := e[key]
	if !ok {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// Has reports whether key carries a usable value. Absent keys, nil and the
// empty string count as missing; zero numbers and false are present.
func (e Event) Has(key string) bool {
	v, ok := e[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// Int returns the integer value of key. JSON numbers decode as float64, so
// both representations are accepted.
func (e Event) Int(key string) int {
	switch v := e[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns the boolean value of key, false when absent.
func (e Event) Bool(key string) bool {
	b, _ := e[key].(bool)
	return b
}

// Clone returns a shallow copy of the event. Nested values are shared.
func (e Event) Clone() Event {
	out := make(Event, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Merge copies every field of other into e, overwriting existing keys.
func (e Event) Merge(other Event) {
	for k, v := range other {
		e[k] = v
	}
}

// CustomFields returns the passthrough custom_* fields of the event.
func (e Event) CustomFields() map[string]any {
	out := make(map[string]any)
	for k, v := range e {
		if strings.HasPrefix(k, CustomFieldPrefix) {
			out[k] = v
		}
	}
	return out
}

// PartitionKey returns the stream partition key for the event: the user id
// when set, otherwise the event id. Numeric and boolean ids are rendered as
// text.
func (e Event) PartitionKey() string {
	if key := scalarText(e[FieldUserID]); key != "" {
		return key
	}
	return scalarText(e[FieldEventID])
}

// scalarText renders a JSON scalar as text. Objects and arrays yield "".
func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool, int, int32, int64, uint, uint32, uint64, fmt.Stringer:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// Truncate shortens s to at most limit characters.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
