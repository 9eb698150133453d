package intent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plotari/chat-service/internal/domain/models"
	"github.com/plotari/chat-service/internal/services/intent"
	"github.com/plotari/chat-service/tests/mocks"
)

func TestNewClassifier_Success(t *testing.T) {
	// Act
	classifier, err := intent.NewClassifier(&intent.Config{})

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, classifier)
}

func TestNewClassifier_NilConfig(t *testing.T) {
	// Act
	classifier, err := intent.NewClassifier(nil)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, classifier)
	assert.Contains(t, err.Error(), "config is required")
}

func TestClassify_EmptyMessage_SkipsCompletion(t *testing.T) {
	// Arrange
	mockCompletion := &mocks.MockCompletionService{}
	classifier, err := intent.NewClassifier(&intent.Config{
		CompletionService: mockCompletion,
	})
	require.NoError(t, err)

	// Act
	result := classifier.Classify(context.Background(), "   ", &models.SessionContext{})

	// Assert
	assert.Equal(t, models.IntentPropertySearch, result.Type)
	assert.NotNil(t, result.Filters)
	mockCompletion.AssertNotCalled(t, "ExtractIntent", mock.Anything, mock.Anything, mock.Anything)
}

func TestClassify_CompletionSucceeds(t *testing.T) {
	// Arrange
	mockCompletion := &mocks.MockCompletionService{}
	extracted := &models.SearchIntent{
		Type:    models.IntentPropertySearch,
		Query:   "condo in San Diego",
		Filters: map[string]any{"city": "San Diego"},
	}
	mockCompletion.On("ExtractIntent", mock.Anything, "find me a condo in San Diego", mock.Anything).
		Return(extracted, nil)

	classifier, err := intent.NewClassifier(&intent.Config{
		CompletionService: mockCompletion,
	})
	require.NoError(t, err)

	// Act
	result := classifier.Classify(context.Background(), "find me a condo in San Diego", &models.SessionContext{})

	// Assert
	assert.Equal(t, extracted, result)
	mockCompletion.AssertExpectations(t)
}

func TestClassify_CompletionFails_FallsBackToRules(t *testing.T) {
	// Arrange
	mockCompletion := &mocks.MockCompletionService{}
	mockCompletion.On("ExtractIntent", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))

	classifier, err := intent.NewClassifier(&intent.Config{
		CompletionService: mockCompletion,
	})
	require.NoError(t, err)

	// Act
	result := classifier.Classify(context.Background(), "hello there", nil)

	// Assert
	assert.Equal(t, models.IntentGeneralConversation, result.Type)
	assert.Equal(t, "hello there", result.Query)
}

func TestClassify_InvalidCandidate_FallsBackToRules(t *testing.T) {
	// Arrange
	mockCompletion := &mocks.MockCompletionService{}
	// Unknown type fails validation.
	mockCompletion.On("ExtractIntent", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.SearchIntent{Type: "gibberish", Query: "x", Filters: map[string]any{}}, nil)

	classifier, err := intent.NewClassifier(&intent.Config{
		CompletionService: mockCompletion,
	})
	require.NoError(t, err)

	// Act
	result := classifier.Classify(context.Background(), "houses in Austin", nil)

	// Assert
	assert.Equal(t, models.IntentPropertySearch, result.Type)
	assert.Equal(t, "houses in Austin", result.Query)
}

func TestClassify_NoCompletionService_UsesRules(t *testing.T) {
	// Arrange
	classifier, err := intent.NewClassifier(&intent.Config{})
	require.NoError(t, err)

	tests := []struct {
		name     string
		message  string
		expected models.IntentType
	}{
		{"greeting", "hello!", models.IntentGeneralConversation},
		{"thanks", "thank you so much", models.IntentGeneralConversation},
		{"greeting with domain word", "hi, show me houses", models.IntentPropertySearch},
		{"compare", "compare 18562768 and 18562769", models.IntentPropertyCompare},
		{"detail", "show me details for 18562768", models.IntentPropertyDetail},
		{"plain search", "3 bedroom condo under 500k", models.IntentPropertySearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			result := classifier.Classify(context.Background(), tt.message, nil)

			// Assert
			assert.Equal(t, tt.expected, result.Type)
		})
	}
}

func TestClassify_CompareOrderAndCap(t *testing.T) {
	// Arrange
	classifier, err := intent.NewClassifier(&intent.Config{})
	require.NoError(t, err)

	// Act
	result := classifier.Classify(context.Background(),
		"compare 11111111 22222222 33333333 44444444 55555555 66666666", nil)

	// Assert
	require.Equal(t, models.IntentPropertyCompare, result.Type)
	assert.Equal(t, []string{"11111111", "22222222", "33333333", "44444444", "55555555"}, result.PropertyIDs)
}

func TestClassify_CompareIncludesCurrentProperty(t *testing.T) {
	// Arrange
	classifier, err := intent.NewClassifier(&intent.Config{})
	require.NoError(t, err)

	currentID := "18562768"
	sessionContext := &models.SessionContext{CurrentPropertyID: &currentID}

	// Act
	result := classifier.Classify(context.Background(), "compare it with 18562769", sessionContext)

	// Assert
	require.Equal(t, models.IntentPropertyCompare, result.Type)
	assert.Equal(t, []string{"18562768", "18562769"}, result.PropertyIDs)
}

func TestClassify_POIWithoutProperty_BecomesNearPOIsSearch(t *testing.T) {
	// Arrange
	classifier, err := intent.NewClassifier(&intent.Config{})
	require.NoError(t, err)

	// Act
	result := classifier.Classify(context.Background(), "homes near good schools", nil)

	// Assert
	require.Equal(t, models.IntentPropertySearch, result.Type)
	assert.Equal(t, models.SearchModeNearPOIs, result.SearchMode)
	assert.Equal(t, models.POICategorySchool, result.Category)
	assert.Equal(t, models.POICategorySchool, result.Filters["poi_category"])
}

func TestClassify_POIWithProperty_BecomesPOISearch(t *testing.T) {
	// Arrange
	classifier, err := intent.NewClassifier(&intent.Config{})
	require.NoError(t, err)

	currentID := "18562768"
	sessionContext := &models.SessionContext{CurrentPropertyID: &currentID}

	// Act
	result := classifier.Classify(context.Background(), "restaurants within 500 meters", sessionContext)

	// Assert
	require.Equal(t, models.IntentPOISearch, result.Type)
	assert.Equal(t, "18562768", result.PropertyID)
	assert.Equal(t, models.POICategoryRestaurant, result.Category)
	assert.Equal(t, 500, result.Radius)
}

func TestClassify_BasicSearchCarriesPreferences(t *testing.T) {
	// Arrange
	classifier, err := intent.NewClassifier(&intent.Config{})
	require.NoError(t, err)

	city := "Crescent City"
	sessionContext := &models.SessionContext{
		Preferences: models.UserPreferences{PreferredCity: &city},
	}

	// Act
	result := classifier.Classify(context.Background(), "show me more listings", sessionContext)

	// Assert
	require.Equal(t, models.IntentPropertySearch, result.Type)
	assert.Equal(t, "Crescent City", result.Filters["city"])
}
