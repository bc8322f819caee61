package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformer_AlwaysIncludesVersion(t *testing.T) {
	tests := []struct {
		name   string
		status string
		input  any
	}{
		{"success response", "200", map[string]string{"key": "value"}},
		{"created response", "201", map[string]string{"id": "123"}},
		{"no content response", "204", nil},
		{"bad request error", "400", errors.New("invalid input")},
		{"conflict error with details", "409", &APIError{Code: "CONFLICT", Message: "already finished", Details: map[string]string{"id": "game-1"}}},
		{"internal server error", "500", errors.New("internal error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EnvelopeTransformer(nil, tt.status, tt.input)
			require.NoError(t, err)

			jsonBytes, err := json.Marshal(result)
			require.NoError(t, err)

			var envelope map[string]any
			require.NoError(t, json.Unmarshal(jsonBytes, &envelope))

			require.Contains(t, envelope, "v")
			assert.Equal(t, float64(EnvelopeVersion), envelope["v"])
			assert.Contains(t, envelope, "success")
		})
	}
}

func TestEnvelopeTransformer_SuccessResponse(t *testing.T) {
	data := map[string]int{"best_score": 90}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok, "Expected APIEnvelope type")
	assert.True(t, envelope.Success)
	assert.Equal(t, data, envelope.Data)
	assert.Empty(t, envelope.Error)

	raw, err := json.Marshal(envelope)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"success":true,"data":{"best_score":90}}`, string(raw))
}

func TestEnvelopeTransformer_PlainError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "400", errors.New("validation failed"))
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok)
	assert.False(t, envelope.Success)
	assert.Nil(t, envelope.Data)
	assert.Equal(t, "validation failed", envelope.Error)
}

func TestEnvelopeTransformer_CodedErrorIsLocalized(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "401", &APIError{
		Code:    "UNAUTHENTICATED",
		Message: "user not authenticated",
	})
	require.NoError(t, err)

	envelope, ok := result.(APIErrorEnvelope)
	require.True(t, ok, "Expected APIErrorEnvelope type")
	assert.False(t, envelope.Success)
	assert.Equal(t, "UNAUTHENTICATED", envelope.Code)
	assert.Equal(t, "Usuário não autenticado", envelope.Message)
}

func TestEnvelopeTransformer_UnknownMessagePassesThrough(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "409", &APIError{
		Code:    "CONFLICT",
		Message: "game session already finished",
		Details: []string{"game-1"},
	})
	require.NoError(t, err)

	envelope := result.(APIErrorEnvelope)
	assert.Equal(t, "game session already finished", envelope.Message)
	assert.Equal(t, []string{"game-1"}, envelope.Details)
}

func TestStatusToCode(t *testing.T) {
	assert.Equal(t, "VALIDATION", statusToCode(422))
	assert.Equal(t, "RATE_LIMITED", statusToCode(429))
	assert.Equal(t, "STORE_UNAVAILABLE", statusToCode(503))
	assert.Equal(t, "HTTP_405", statusToCode(405))
	assert.Equal(t, "INTERNAL", statusToCode(500))
}
