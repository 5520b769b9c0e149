package errors

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType_WalksWrappedErrors(t *testing.T) {
	var syntaxErr *json.SyntaxError
	err := json.Unmarshal([]byte("{"), &struct{}{})
	assert.ErrorAs(t, err, &syntaxErr)

	malformed := NewMalformedJSON(err)
	wrapped := fmt.Errorf("analyze upload: %w", malformed)

	assert.True(t, IsErrorType(malformed, ErrorTypeMalformedJSON))
	assert.True(t, IsErrorType(wrapped, ErrorTypeMalformedJSON))
	assert.False(t, IsErrorType(wrapped, ErrorTypeInvalidFormat))
	assert.False(t, IsErrorType(nil, ErrorTypeMalformedJSON))
}

func TestIsErrorType_SentinelBaseError(t *testing.T) {
	err := fmt.Errorf("export: %w", ErrExportDisabled)
	assert.True(t, IsErrorType(err, ErrorTypeExport))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"malformed", NewMalformedJSON(nil), MsgMalformedJSON},
		{"invalid format", NewInvalidFormat("object"), MsgInvalidFormat},
		{"processing", NewProcessing("traverse", fmt.Errorf("boom")), MsgProcessing},
		{"wrapped invalid format", fmt.Errorf("x: %w", NewInvalidFormat("string")), MsgInvalidFormat},
		{"unrelated", fmt.Errorf("disk full"), MsgProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestBaseError_ErrorString(t *testing.T) {
	err := NewProcessing("traverse", fmt.Errorf("nil mapping entry"))
	assert.Equal(t, "[processing] "+MsgProcessing+": nil mapping entry", err.Error())

	plain := NewInvalidFormat("object")
	assert.Equal(t, "[invalid_format] "+MsgInvalidFormat, plain.Error())
	assert.Equal(t, "object", plain.Found)
}
