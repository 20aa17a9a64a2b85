// Package messages provides the user facing strings the scrapers put into
// errors, so callers can pick a language instead of relying on a global.
package messages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type Provider interface {
	WrongCredentials() string
	UnsuccessfulRequest(code int, status string) string
}

const (
	keyWrongCredentials    = "Wrong username or password"
	keyUnsuccessfulRequest = "Unsuccessful request: %d %s"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyWrongCredentials:    "Wrong username or password",
		keyUnsuccessfulRequest: "Unsuccessful request: %d %s",
	},
	language.French: {
		keyWrongCredentials:    "Nom d'utilisateur ou mot de passe incorrect",
		keyUnsuccessfulRequest: "Échec de la requête : %d %s",
	},
}

// Catalog is a Provider backed by x/text message catalogs.
type Catalog struct {
	printer *message.Printer
}

func newBuilder() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, strings := range translations {
		for key, msg := range strings {
			err := b.SetString(tag, key, msg)
			if err != nil {
				panic(err)
			}
		}
	}
	return b
}

var builder = newBuilder()

// NewCatalog picks the closest supported language to tag, English when
// nothing matches.
func NewCatalog(tag language.Tag) Catalog {
	supported := builder.Languages()
	_, idx, confidence := language.NewMatcher(supported).Match(tag)
	chosen := language.English
	if confidence != language.No {
		chosen = supported[idx]
	}
	return Catalog{
		printer: message.NewPrinter(chosen, message.Catalog(builder)),
	}
}

// Parse is NewCatalog for a BCP 47 string such as "fr" or "en-US", an
// unparsable string yields English.
func Parse(lang string) Catalog {
	tag, err := language.Parse(lang)
	if err != nil {
		return NewCatalog(language.English)
	}
	return NewCatalog(tag)
}

var English = NewCatalog(language.English)

func (c Catalog) WrongCredentials() string {
	return c.printer.Sprintf(keyWrongCredentials)
}

func (c Catalog) UnsuccessfulRequest(code int, status string) string {
	return c.printer.Sprintf(keyUnsuccessfulRequest, code, status)
}
