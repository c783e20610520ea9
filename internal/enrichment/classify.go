package enrichment

import "strings"

// keywordRule assigns label when the input contains any of the keywords and
// none of the exclusions.
type keywordRule struct {
	label    string
	keywords []string
	excludes []string
}

func (r keywordRule) matches(s string) bool {
	return containsAny(s, r.keywords...) && !containsAny(s, r.excludes...)
}

// classify evaluates rules top to bottom and returns the first matching
// label. The input is expected to be lower case already.
func classify(s string, rules []keywordRule, fallback string) string {
	for _, r := range rules {
		if r.matches(s) {
			return r.label
		}
	}
	return fallback
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Order matters: every Chrome user agent also mentions Safari, and Edge
// user agents mention Chrome.
var browserRules = []keywordRule{
	{label: "Chrome", keywords: []string{"chrome"}, excludes: []string{"edge"}},
	{label: "Firefox", keywords: []string{"firefox"}},
	{label: "Safari", keywords: []string{"safari"}, excludes: []string{"chrome"}},
	{label: "Edge", keywords: []string{"edge"}},
	{label: "Opera", keywords: []string{"opera"}},
}

var osRules = []keywordRule{
	{label: "Windows", keywords: []string{"windows"}},
	{label: "macOS", keywords: []string{"mac"}, excludes: []string{"iphone", "ipad"}},
	{label: "Linux", keywords: []string{"linux"}},
	{label: "Android", keywords: []string{"android"}},
	{label: "iOS", keywords: []string{"iphone", "ipad"}},
}

var deviceTypeRules = []keywordRule{
	{label: "Mobile", keywords: []string{"mobile", "android", "iphone"}},
	{label: "Tablet", keywords: []string{"tablet", "ipad"}},
}

var deviceBrandRules = []keywordRule{
	{label: "Apple", keywords: []string{"iphone", "ipad", "mac"}},
	{label: "Samsung", keywords: []string{"samsung"}},
	{label: "Google", keywords: []string{"google"}},
}

var pageTypeRules = []keywordRule{
	{label: "product", keywords: []string{"/product"}},
	{label: "category", keywords: []string{"/category"}},
	{label: "blog", keywords: []string{"/blog"}},
	{label: "about", keywords: []string{"/about"}},
	{label: "contact", keywords: []string{"/contact"}},
}

var userIntentRules = []keywordRule{
	{label: "search", keywords: []string{"/search"}},
	{label: "browse", keywords: []string{"/product"}},
	{label: "purchase", keywords: []string{"/checkout"}},
}

var campaignTypeRules = []keywordRule{
	{label: "paid_search", keywords: []string{"cpc", "ppc"}},
	{label: "email", keywords: []string{"email"}},
	{label: "social", keywords: []string{"social"}},
}

var (
	botKeywords          = []string{"bot", "crawler", "spider", "scraper", "curl", "wget"}
	mobileKeywords       = []string{"mobile", "android", "iphone"}
	tabletKeywords       = []string{"tablet", "ipad"}
	trackingParams       = []string{"utm_source", "utm_medium", "utm_campaign", "gclid", "fbclid"}
	searchEngineDomains  = []string{"google.com", "bing.com", "yahoo.com", "duckduckgo.com"}
	socialDomains        = []string{"facebook.com", "twitter.com", "linkedin.com", "instagram.com"}
	privateIPPrefixes    = []string{"10.", "172.", "192.168.", "127."}
	highIntentPaths      = []string{"/checkout", "/cart", "/signup", "/contact"}
	productPagePaths     = []string{"/product", "/item"}
	categoryPagePaths    = []string{"/category", "/collection"}
	checkoutPagePaths    = []string{"/checkout", "/cart", "/payment"}
	accountPagePaths     = []string{"/account", "/profile", "/dashboard"}
	attributionUTMFields = []string{"utm_source", "utm_medium", "utm_campaign"}
	paidSearchMediums    = map[string]bool{"cpc": true, "ppc": true}
	homepagePaths        = map[string]bool{"": true, "/": true}
)

var eventValues = map[string]int{
	"page_view":   1,
	"link_click":  2,
	"form_submit": 5,
	"purchase":    10,
	"signup":      8,
}

var interactionTypes = map[string]string{
	"page_view":   "passive",
	"link_click":  "navigation",
	"form_submit": "conversion",
	"scroll":      "engagement",
	"download":    "conversion",
}

const (
	newSessionPrefix   = "sess_"
	newUserPrefix      = "user_"
	unknownVersion     = "Unknown"
	defaultSubcategory = "general"
	defaultEventValue  = 1
	defaultInteraction = "other"
)

// categorizePageType maps a URL path to a coarse page type.
func categorizePageType(path string) string {
	if homepagePaths[path] {
		return "homepage"
	}
	return classify(strings.ToLower(path), pageTypeRules, "other")
}
