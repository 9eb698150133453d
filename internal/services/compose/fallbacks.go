package compose

import (
	"fmt"
	"strings"

	"github.com/plotari/chat-service/internal/domain/models"
)

// cannedConversationalReply is the keyword-matched reply table used when the
// completion service cannot produce a conversational answer.
func cannedConversationalReply(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))

	switch {
	case containsAny(lower, []string{"hello", "hi", "hey", "hola", "good morning", "good afternoon", "good evening"}):
		return "Hello! Welcome to Plotari. I'm here to help you find your perfect property. What are you looking for today?"
	case containsAny(lower, []string{"what can you", "how can you help", "what do you do", "help me"}):
		return "I can help you find properties! Just tell me what you're looking for - like location, number of bedrooms, price range, or any specific features. I can also show you nearby restaurants, schools, parks, and compare different properties. What interests you?"
	case containsAny(lower, []string{"thank", "thanks", "gracias", "appreciate"}):
		return "You're welcome! If you need help finding properties or have any questions, I'm here to assist. Just let me know!"
	case containsAny(lower, []string{"bye", "goodbye", "see you", "adiós", "hasta luego"}):
		return "Goodbye! Feel free to come back anytime you need help finding properties. Have a great day!"
	case containsAny(lower, []string{"how are you", "cómo estás"}):
		return "I'm doing great, thank you! Ready to help you find the perfect property. What are you looking for?"
	default:
		return "I'm here to help you find properties! You can ask me about houses, condos, or apartments in specific locations, or tell me your preferences like price range, number of bedrooms, etc. What would you like to know?"
	}
}

// fallbackResultReply is the deterministic per-intent template used when the
// completion service cannot describe the results.
func fallbackResultReply(properties []models.Property, pois []models.POI, intent *models.SearchIntent) string {
	intentType := models.IntentPropertySearch
	if intent != nil {
		intentType = intent.Type
	}

	switch intentType {
	case models.IntentPropertySearch:
		if len(properties) > 0 {
			return fmt.Sprintf("I found %d properties that match your search. Would you like to see more details about any particular one?", len(properties))
		}
		return "I didn't find any properties that match your search. Could you be more specific about what you're looking for?"
	case models.IntentPropertyDetail:
		if len(properties) > 0 {
			return describeProperty(&properties[0])
		}
		return "I couldn't find detailed information about that property. Could you provide the property ID?"
	case models.IntentPOISearch:
		if len(pois) > 0 {
			return fmt.Sprintf("I found %d points of interest near the property. Would you like to see more details?", len(pois))
		}
		return "I didn't find any points of interest near that location. Could you specify a larger radius?"
	case models.IntentPropertyCompare:
		if len(properties) > 0 {
			return fmt.Sprintf("I compared %d properties. Would you like to see a detailed comparison table?", len(properties))
		}
		return "I couldn't find the properties to compare. Could you provide the property IDs?"
	default:
		return "I understand your query, but I need more information to help you better."
	}
}

func describeProperty(p *models.Property) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's information about %s in %s.", p.Address, p.City)
	if p.Price != nil {
		fmt.Fprintf(&b, " Price: $%.0f", *p.Price)
	}
	if p.Bedrooms != nil {
		fmt.Fprintf(&b, ", %.0f bedrooms", *p.Bedrooms)
	}
	if p.Bathrooms != nil {
		fmt.Fprintf(&b, ", %.1f bathrooms", *p.Bathrooms)
	}
	b.WriteString(".")
	return b.String()
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
