package searchengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSourceToSearchEngine(t *testing.T) {
	mapper := NewDefaultMapper()

	assert.Equal(t, "Google", mapper.MapSourceToSearchEngine("google"))
	assert.Equal(t, "Google", mapper.MapSourceToSearchEngine("Google Search"))
	assert.Equal(t, "Bing", mapper.MapSourceToSearchEngine("MSN Search"))

	// Punctuation in the source does not break the lookup.
	assert.Equal(t, "Yahoo!", mapper.MapSourceToSearchEngine("yahoo"))
	assert.Equal(t, "Yahoo!", mapper.MapSourceToSearchEngine("Yahoo!"))

	// GA reports ask.com traffic as search-results.
	assert.Equal(t, "Ask", mapper.MapSourceToSearchEngine("search-results"))

	// Unknown sources pass through unchanged.
	assert.Equal(t, "internal-wiki", mapper.MapSourceToSearchEngine("internal-wiki"))
	assert.Equal(t, "", mapper.MapSourceToSearchEngine(""))
}

func TestMapReferralMediumToSearchEngine(t *testing.T) {
	mapper := NewDefaultMapper()

	name, found := mapper.MapReferralMediumToSearchEngine("google.com")
	assert.True(t, found)
	assert.Equal(t, "Google", name)

	// Subdomains resolve by suffix.
	name, found = mapper.MapReferralMediumToSearchEngine("www.google.com")
	assert.True(t, found)
	assert.Equal(t, "Google", name)

	name, found = mapper.MapReferralMediumToSearchEngine("cn.bing.com")
	assert.True(t, found)
	assert.Equal(t, "Bing", name)

	_, found = mapper.MapReferralMediumToSearchEngine("example.org")
	assert.False(t, found)
}

func TestGetDefinitionByHost(t *testing.T) {
	mapper := NewDefaultMapper()

	definition := mapper.GetDefinitionByHost("duckduckgo.com")
	assert.NotNil(t, definition)
	assert.Equal(t, "DuckDuckGo", definition.Name)

	// Suffix matching requires a dot boundary.
	assert.Nil(t, mapper.GetDefinitionByHost("notduckduckgo.com"))
	assert.Nil(t, mapper.GetDefinitionByHost(""))
}
