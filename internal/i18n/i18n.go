// Package i18n localizes user-facing text. Brazilian Portuguese is the
// default; English is the only other supported language.
package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/placarapp/placar-server/internal/ranking"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Supported languages, default first.
var (
	PortugueseBR = language.BrazilianPortuguese
	English      = language.English
)

var (
	supported = []language.Tag{PortugueseBR, English}
	matcher   = language.NewMatcher(supported)
	messages  = newCatalog()
)

// Default returns the fallback language.
func Default() language.Tag {
	return PortugueseBR
}

// Match maps any tags onto the closest supported language.
func Match(tags ...language.Tag) language.Tag {
	if len(tags) == 0 {
		return Default()
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// ParseTag parses a language value and matches it to a supported tag.
// It reports false when the value is malformed or matches no supported
// language.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return Default(), false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default(), false
	}
	return supported[idx], true
}

// ResolveTag picks the language for a request: the lang query parameter
// first, then Accept-Language, then the default.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}

	if langValue := r.URL.Query().Get(LangParam); langValue != "" {
		if tag, ok := ParseTag(langValue); ok {
			return tag
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return Match(tags...)
		}
	}

	return Default()
}

type tagKey struct{}

// WithTag stores the request language in ctx.
func WithTag(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, tagKey{}, tag)
}

// TagFromContext returns the language stored by WithTag, or the default.
func TagFromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(tagKey{}).(language.Tag); ok {
		return tag
	}
	return Default()
}

// Middleware resolves the request language and stores it in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := ResolveTag(r)
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(WithTag(r.Context(), tag)))
	})
}

// Printer returns a message printer for tag backed by the server catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag), message.Catalog(messages))
}

// T formats the message for key in the given language.
func T(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}

// TC is T with the language taken from ctx.
func TC(ctx context.Context, key string, args ...any) string {
	return T(TagFromContext(ctx), key, args...)
}

// LocalizeAuthError translates an identity provider message. Messages the
// catalog does not know are returned unchanged.
func LocalizeAuthError(tag language.Tag, msg string) string {
	if _, ok := authMessagesPTBR[msg]; !ok {
		return msg
	}
	return T(tag, msg)
}

// RankingLabels returns the leaderboard display labels for a language.
func RankingLabels(tag language.Tag) ranking.Labels {
	p := Printer(tag)
	labels := ranking.DefaultLabels
	labels.You = p.Sprintf(KeyRankingYou)
	labels.PlayerPrefix = p.Sprintf(KeyRankingPlayerPrefix)
	return labels
}

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(PortugueseBR))
	for key, msg := range messagesPTBR {
		mustSet(b, PortugueseBR, key, msg)
	}
	for key, msg := range authMessagesPTBR {
		mustSet(b, PortugueseBR, key, msg)
	}
	for key, msg := range messagesEN {
		mustSet(b, English, key, msg)
	}
	// Provider messages are already English.
	for key := range authMessagesPTBR {
		mustSet(b, English, key, key)
	}
	return b
}

func mustSet(b *catalog.Builder, tag language.Tag, key, msg string) {
	if err := b.SetString(tag, key, msg); err != nil {
		panic("i18n: " + err.Error())
	}
}
