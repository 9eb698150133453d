package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/plotari/chat-service/internal/domain/models"
)

const (
	maxContextProperties = 5
	maxContextPOIs       = 5
	historySnippetLen    = 100
)

const conversationalSystemPrompt = `You are Plotari, a friendly and helpful AI real estate assistant.

Your personality:
- Warm, professional, and conversational
- Eager to help users find their perfect property
- Knowledgeable about real estate

Your capabilities:
- Search for properties by location, price, bedrooms, bathrooms, and features
- Provide detailed information about specific properties
- Find nearby points of interest (restaurants, schools, parks, etc.)
- Compare multiple properties
- Answer general questions about real estate

Guidelines:
- When greeting users, be warm and welcoming
- When asked about capabilities, explain what you can do
- When thanked, respond graciously and offer continued help
- Keep responses concise but friendly
- If appropriate, gently guide the conversation towards helping them find properties
- Respond in English`

const resultSystemPrompt = `You are an expert real estate assistant. Respond naturally and helpfully about the properties and POIs found.
Include relevant information such as price, location, main features.
If there are no results, explain why and suggest alternatives.
Maintain a professional but friendly tone.
Respond in English.`

// buildResultContext renders the results and conversation state as the text
// block sent alongside the user's query.
func buildResultContext(properties []models.Property, pois []models.POI, intent *models.SearchIntent, session *models.ConversationSession) string {
	var b strings.Builder

	if intent != nil {
		fmt.Fprintf(&b, "Query type: %s\n", intent.Type)
	}

	if len(properties) > 0 {
		fmt.Fprintf(&b, "\nProperties found: %d results\n\n", len(properties))
		for i, p := range properties {
			if i == maxContextProperties {
				break
			}
			fmt.Fprintf(&b, "%d. %s, %s, %s\n", i+1, p.Address, p.City, p.State)
			if p.Price != nil {
				fmt.Fprintf(&b, "   Price: $%.0f\n", *p.Price)
			} else {
				b.WriteString("   Price: Not available\n")
			}
			if p.Bedrooms != nil && p.Bathrooms != nil {
				fmt.Fprintf(&b, "   %.0f bed, %.1f bath", *p.Bedrooms, *p.Bathrooms)
			} else {
				b.WriteString("   Bedrooms: Not specified")
			}
			if p.LivingArea != nil {
				fmt.Fprintf(&b, ", %.0f sqft", *p.LivingArea)
			}
			b.WriteString("\n")
			if p.Description != "" {
				fmt.Fprintf(&b, "   Description: %s...\n", snippet(p.Description, historySnippetLen))
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("No properties found matching the search.\n")
	}

	if len(pois) > 0 {
		fmt.Fprintf(&b, "\nPoints of interest found: %d results\n\n", len(pois))
		for i, poi := range pois {
			if i == maxContextPOIs {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n   Category: %s\n", i+1, poi.Name, poi.Category)
			if poi.Rating != nil {
				fmt.Fprintf(&b, "   Rating: %.1f/5\n", *poi.Rating)
			}
			b.WriteString("\n")
		}
	}

	if session != nil {
		b.WriteString(buildSessionContext(session))
	}
	return b.String()
}

// buildSessionContext renders user preferences and recent history.
func buildSessionContext(session *models.ConversationSession) string {
	var b strings.Builder

	prefs := session.Context.Preferences
	var prefLines []string
	if prefs.PreferredCity != nil {
		prefLines = append(prefLines, fmt.Sprintf("- Preferred city: %s", *prefs.PreferredCity))
	}
	if prefs.PropertyType != nil {
		prefLines = append(prefLines, fmt.Sprintf("- Property type: %s", *prefs.PropertyType))
	}
	if prefs.MinBedrooms != nil {
		prefLines = append(prefLines, fmt.Sprintf("- Minimum bedrooms: %d", *prefs.MinBedrooms))
	}
	if prefs.MaxPrice != nil {
		prefLines = append(prefLines, fmt.Sprintf("- Maximum price: $%.0f", *prefs.MaxPrice))
	}
	if len(prefLines) > 0 {
		b.WriteString("\nConversation context:\n")
		b.WriteString(strings.Join(prefLines, "\n"))
		b.WriteString("\n")
	}

	// Last turns before the current message.
	messages := session.Messages
	if len(messages) > 1 {
		prior := messages[:len(messages)-1]
		start := len(prior) - historyTurns
		if start < 0 {
			start = 0
		}
		fmt.Fprintf(&b, "\nPrevious conversation (%d messages):\n", len(prior))
		for _, msg := range prior[start:] {
			role := "User"
			if msg.Role == models.RoleAssistant {
				role = "Assistant"
			}
			fmt.Fprintf(&b, "- %s: %s...\n", role, snippet(msg.Content, historySnippetLen))
		}
	}
	return b.String()
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so multi-byte characters stay intact.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
