package intent

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/plotari/chat-service/internal/domain/models"
)

// Rule-based fallback classification. Branches are evaluated in a fixed
// priority order: conversation, compare, detail, proximity, then a plain
// property search.

var (
	conversationKeywords = []string{
		"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
		"thanks", "thank you", "bye", "goodbye", "see you",
		"how are you", "help", "what can you do",
	}
	propertyDomainKeywords = []string{
		"property", "properties", "house", "houses", "home", "homes",
		"condo", "condos", "apartment", "apartments", "townhouse",
		"bedroom", "bathroom", "price", "buy", "rent", "listing",
		"search", "compare", "near",
	}
	compareKeywords = []string{"compare", "comparar", "vs", "versus"}
	detailKeywords  = []string{"detail", "details", "detalle", "info", "información"}
	poiKeywords     = []string{
		"near", "nearby", "cerca", "poi",
		"school", "schools", "escuela", "colegio",
		"restaurant", "restaurants", "restaurante", "comida",
		"hospital", "clinic", "clínica", "médico",
		"shop", "shops", "store", "tienda", "comercio",
		"park", "parks", "parque",
	}

	propertyIDPattern = regexp.MustCompile(`\b(\d{8,})\b`)
	bareNumberPattern = regexp.MustCompile(`\b(\d+)\b`)
	radiusPattern     = regexp.MustCompile(`(\d+)\s*(?:metros?|meters?|m)\b`)
)

// poiCategoryTable maps keyword groups to POI categories. First match wins.
var poiCategoryTable = []struct {
	keywords []string
	category string
}{
	{[]string{"school", "schools", "escuela", "colegio"}, models.POICategorySchool},
	{[]string{"restaurant", "restaurants", "restaurante", "comida"}, models.POICategoryRestaurant},
	{[]string{"hospital", "clinic", "clínica", "médico"}, models.POICategoryHealthcare},
	{[]string{"shop", "shops", "store", "tienda", "comercio"}, models.POICategoryShopping},
	{[]string{"park", "parks", "parque"}, models.POICategoryPark},
}

func classifyByRules(message string, sessionContext *models.SessionContext) *models.SearchIntent {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, conversationKeywords) && !containsAny(lower, propertyDomainKeywords):
		return &models.SearchIntent{
			Type:    models.IntentGeneralConversation,
			Query:   message,
			Filters: map[string]any{},
		}
	case containsAny(lower, compareKeywords):
		return compareIntent(message, sessionContext)
	case containsAny(lower, detailKeywords):
		return detailIntent(message, lower, sessionContext)
	case containsAny(lower, poiKeywords):
		return poiIntent(message, lower, sessionContext)
	default:
		return basicSearchIntent(message, sessionContext)
	}
}

func compareIntent(message string, sessionContext *models.SessionContext) *models.SearchIntent {
	ids := propertyIDPattern.FindAllString(message, -1)

	// A property already in focus joins the comparison.
	if sessionContext != nil && sessionContext.CurrentPropertyID != nil {
		if !contains(ids, *sessionContext.CurrentPropertyID) {
			ids = append([]string{*sessionContext.CurrentPropertyID}, ids...)
		}
	}

	ids = dedupeStrings(ids)
	if len(ids) > models.MaxCompareProperties {
		ids = ids[:models.MaxCompareProperties]
	}

	return &models.SearchIntent{
		Type:        models.IntentPropertyCompare,
		Query:       message,
		Filters:     map[string]any{},
		PropertyIDs: ids,
	}
}

func detailIntent(message, lower string, sessionContext *models.SessionContext) *models.SearchIntent {
	propertyID := ""
	if sessionContext != nil && sessionContext.CurrentPropertyID != nil {
		propertyID = *sessionContext.CurrentPropertyID
	}
	if propertyID == "" {
		propertyID = bareNumberPattern.FindString(lower)
	}

	return &models.SearchIntent{
		Type:       models.IntentPropertyDetail,
		Query:      message,
		Filters:    map[string]any{},
		PropertyID: propertyID,
	}
}

func poiIntent(message, lower string, sessionContext *models.SessionContext) *models.SearchIntent {
	category := ""
	for _, entry := range poiCategoryTable {
		if containsAny(lower, entry.keywords) {
			category = entry.category
			break
		}
	}

	radius := models.DefaultPOIRadius
	if match := radiusPattern.FindStringSubmatch(lower); match != nil {
		if parsed, err := strconv.Atoi(match[1]); err == nil {
			radius = parsed
		}
	}

	propertyID := ""
	if sessionContext != nil && sessionContext.CurrentPropertyID != nil {
		propertyID = *sessionContext.CurrentPropertyID
	}

	// Without a reference property this becomes a composite search for
	// properties near POIs of the category.
	if propertyID == "" {
		query := message
		if category != "" {
			query = "home near " + category
		}
		return &models.SearchIntent{
			Type:  models.IntentPropertySearch,
			Query: query,
			Filters: map[string]any{
				"poi_category": category,
				"poi_radius":   radius,
			},
			Category:   category,
			Radius:     radius,
			SearchMode: models.SearchModeNearPOIs,
		}
	}

	return &models.SearchIntent{
		Type:       models.IntentPOISearch,
		Query:      message,
		Filters:    map[string]any{},
		PropertyID: propertyID,
		Category:   category,
		Radius:     radius,
	}
}

func basicSearchIntent(message string, sessionContext *models.SessionContext) *models.SearchIntent {
	filters := map[string]any{}
	if sessionContext != nil {
		if sessionContext.Preferences.PreferredCity != nil {
			filters["city"] = *sessionContext.Preferences.PreferredCity
		}
		if sessionContext.CurrentPropertyID != nil {
			filters["property_id"] = *sessionContext.CurrentPropertyID
		}
	}

	return &models.SearchIntent{
		Type:    models.IntentPropertySearch,
		Query:   message,
		Filters: filters,
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func dedupeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so multi-byte characters stay intact.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
