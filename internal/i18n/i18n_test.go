package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestResolveTag(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		accept string
		want   language.Tag
	}{
		{"default", "/", "", PortugueseBR},
		{"query wins", "/?lang=en", "pt-BR", English},
		{"accept header", "/", "en-US,en;q=0.9", English},
		{"plain portuguese", "/", "pt", PortugueseBR},
		{"unsupported falls back", "/", "ja-JP", PortugueseBR},
		{"bad query uses header", "/?lang=!!", "en", English},
		{"unsupported query uses header", "/?lang=de", "en-US", English},
		{"unsupported query no header", "/?lang=de", "", PortugueseBR},
		{"garbage header", "/", ";;;", PortugueseBR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			assert.Equal(t, tt.want, ResolveTag(r))
		})
	}

	assert.Equal(t, PortugueseBR, ResolveTag(nil))
}

func TestContextRoundTrip(t *testing.T) {
	assert.Equal(t, PortugueseBR, TagFromContext(context.Background()))

	ctx := WithTag(context.Background(), English)
	assert.Equal(t, English, TagFromContext(ctx))
}

func TestMiddleware(t *testing.T) {
	var seen language.Tag
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = TagFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))

	assert.Equal(t, English, seen)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Usuário não autenticado", T(PortugueseBR, KeyUnauthenticated))
	assert.Equal(t, "Ninguém no ranking ainda. Seja o primeiro!", T(PortugueseBR, KeyTopEmpty))
	assert.Equal(t, "Nenhum score registrado ainda. Seja o primeiro a jogar!", T(PortugueseBR, KeyLeaderboardEmpty))
	assert.Equal(t, "User not authenticated", T(English, KeyUnauthenticated))
	assert.Equal(t, "Novo recorde: 150 pontos!", T(PortugueseBR, KeyNewRecord, 150))
	assert.Equal(t, "Usuário não autenticado", TC(context.Background(), KeyUnauthenticated))
}

func TestLocalizeAuthError(t *testing.T) {
	tests := map[string]string{
		MsgInvalidCredentials:  "Email ou senha incorretos.",
		MsgUserExists:          "Este email já está cadastrado.",
		MsgWeakPassword:        "A senha deve ter pelo menos 6 caracteres.",
		MsgInvalidEmail:        "Email inválido.",
		MsgEmailNotConfirmed:   "Email não confirmado. Verifique sua caixa de entrada.",
		"Something unexpected": "Something unexpected",
		"100% broken":          "100% broken",
	}
	for in, want := range tests {
		assert.Equal(t, want, LocalizeAuthError(PortugueseBR, in), in)
	}

	assert.Equal(t, MsgInvalidCredentials, LocalizeAuthError(English, MsgInvalidCredentials))
}

func TestRankingLabels(t *testing.T) {
	pt := RankingLabels(PortugueseBR)
	assert.Equal(t, "Você", pt.You)
	assert.Equal(t, "Jogador ", pt.PlayerPrefix)
	assert.Equal(t, "Jogador abcdefgh...", pt.DisplayName("abcdefghijk", "viewer"))

	en := RankingLabels(English)
	assert.Equal(t, "You", en.You)
	assert.Equal(t, "Player abcdefgh...", en.DisplayName("abcdefghijk", ""))
	assert.Equal(t, 8, en.MaskLength)
}

func TestMatch(t *testing.T) {
	assert.Equal(t, PortugueseBR, Match())
	assert.Equal(t, English, Match(language.BritishEnglish))

	tag, ok := ParseTag("en-GB")
	require.True(t, ok)
	assert.Equal(t, English, tag)

	_, ok = ParseTag("!!")
	assert.False(t, ok)

	tag, ok = ParseTag("de")
	assert.False(t, ok)
	assert.Equal(t, PortugueseBR, tag)
}
