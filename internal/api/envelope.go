package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/text/language"

	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/i18n"
)

// EnvelopeVersion is bumped on breaking changes to the response wrapper.
const EnvelopeVersion = 1

// APIEnvelope wraps every successful response, and failures that did not
// come from the domain.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope wraps coded errors.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps handler output in the response envelope and
// localizes error messages for the request language.
func EnvelopeTransformer(ctx huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Code:    body.Code,
			Message: localizeError(requestTag(ctx), body),
			Details: body.Details,
		}, nil
	case error:
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   body.Error(),
		}, nil
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: strings.HasPrefix(status, "2") || strings.HasPrefix(status, "3"),
		Data:    v,
	}, nil
}

func requestTag(ctx huma.Context) language.Tag {
	if ctx == nil {
		return i18n.Default()
	}
	return i18n.TagFromContext(ctx.Context())
}

// localizeError picks the user-facing text for an error. Codes with a fixed
// text use the catalog; identity provider messages are translated; anything
// else is passed through.
func localizeError(tag language.Tag, e *APIError) string {
	switch domainerrors.Code(e.Code) {
	case domainerrors.CodeUnauthenticated:
		return i18n.T(tag, i18n.KeyUnauthenticated)
	case domainerrors.CodeStoreUnavailable:
		return i18n.T(tag, i18n.KeyStoreUnavailable)
	case domainerrors.CodeRateLimited:
		return i18n.T(tag, i18n.KeyRateLimited)
	}
	return i18n.LocalizeAuthError(tag, e.Message)
}

// localized is a shorthand for handlers.
func localized(ctx context.Context, key string, args ...any) string {
	return i18n.TC(ctx, key, args...)
}
