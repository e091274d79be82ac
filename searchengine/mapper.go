package searchengine

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Mapper normalizes Google Analytics source/medium referral strings to
// canonical search engine names. All lookups are built once at construction;
// the mapper is read-only afterwards and safe for concurrent use.
type Mapper struct {
	definitionByKey  map[string]*Definition
	definitionByHost map[string]*Definition
}

func NewMapper(definitions []Definition) *Mapper {
	mapper := &Mapper{
		definitionByKey:  make(map[string]*Definition),
		definitionByHost: make(map[string]*Definition),
	}

	for i := range definitions {
		definition := &definitions[i]

		mapper.addKey(definition.Name, definition)
		for _, alias := range definition.Aliases {
			mapper.addKey(alias, definition)
		}

		for _, host := range definition.Hosts {
			mapper.definitionByHost[strings.ToLower(host)] = definition
		}
	}

	// GA reports ask.com traffic under this source value.
	if ask, found := mapper.definitionByKey["ask"]; found {
		mapper.definitionByKey["search-results"] = ask
	}

	return mapper
}

// NewDefaultMapper builds a mapper over the built-in definitions table.
func NewDefaultMapper() *Mapper {
	return NewMapper(GetDefinitions())
}

func (mapper *Mapper) addKey(name string, definition *Definition) {
	lowered := strings.ToLower(name)
	mapper.definitionByKey[lowered] = definition
	mapper.definitionByKey[simplifyKey(lowered)] = definition
}

// simplifyKey strips everything but letters and digits, so "Yahoo!" and
// "yahoo" resolve to the same definition.
func simplifyKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MapSourceToSearchEngine returns the canonical engine name for a GA source
// value. Unknown sources are logged and returned unchanged so a new engine in
// the wild never fails an import.
func (mapper *Mapper) MapSourceToSearchEngine(source string) string {
	lowered := strings.ToLower(source)

	if definition, found := mapper.definitionByKey[lowered]; found {
		return definition.Name
	}
	if definition, found := mapper.definitionByKey[simplifyKey(lowered)]; found {
		return definition.Name
	}

	log.WithField("source", source).Warn("No search engine definition found for source.")
	return source
}

// MapReferralMediumToSearchEngine resolves a referral host to an engine name.
// The empty string and false are returned when no definition matches the host.
func (mapper *Mapper) MapReferralMediumToSearchEngine(host string) (string, bool) {
	definition := mapper.GetDefinitionByHost(host)
	if definition == nil {
		return "", false
	}
	return definition.Name, true
}

// GetDefinitionByHost matches the host against definition hosts by suffix.
func (mapper *Mapper) GetDefinitionByHost(host string) *Definition {
	lowered := strings.ToLower(host)

	if definition, found := mapper.definitionByHost[lowered]; found {
		return definition
	}

	for definitionHost, definition := range mapper.definitionByHost {
		if strings.HasSuffix(lowered, "."+definitionHost) {
			return definition
		}
	}
	return nil
}
