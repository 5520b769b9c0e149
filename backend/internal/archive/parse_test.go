package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "chat-wordmap/backend/pkg/errors"
)

func TestParse_ExportShape(t *testing.T) {
	data := []byte(`[
		{
			"title": "Trip planning",
			"mapping": {
				"root": {"id": "root", "message": null, "children": ["m1"]},
				"m1": {"message": {"author": {"role": "user"}, "content": {"content_type": "text", "parts": ["hello world", {"text": "structured"}, 42, {"other": 1}, {"text": true}]}}},
				"m2": {"message": {"content": null}}
			}
		},
		{"title": "no mapping"},
		{"mapping": {}}
	]`)

	convs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, convs, 3)

	first := convs[0]
	assert.True(t, first.Mapping.Present())
	require.Equal(t, 3, first.Mapping.Len())

	entries := first.Mapping.Entries()
	assert.Equal(t, "root", entries[0].ID)
	assert.Equal(t, "m1", entries[1].ID)
	assert.Equal(t, "m2", entries[2].ID)
	assert.Nil(t, entries[0].Node.Message)

	parts := entries[1].Node.Message.Content.Parts
	require.Len(t, parts, 5)
	assert.Equal(t, TextPart("hello world"), parts[0])
	assert.Equal(t, StructuredPart("structured"), parts[1])
	assert.Equal(t, PartUnknown, parts[2].Kind)
	assert.Equal(t, PartUnknown, parts[3].Kind)
	assert.Equal(t, StructuredPart("true"), parts[4])
	assert.Len(t, entries[1].Node.Message.TextParts(), 3)

	assert.Nil(t, entries[2].Node.Message.TextParts())

	assert.False(t, convs[1].Mapping.Present())
	assert.True(t, convs[2].Mapping.Present())
	assert.Equal(t, 0, convs[2].Mapping.Len())
}

func TestParse_EmptyArray(t *testing.T) {
	convs, err := Parse([]byte(" [] "))
	require.NoError(t, err)
	assert.Empty(t, convs)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errType apperrors.ErrorType
	}{
		{"empty input", "", apperrors.ErrorTypeMalformedJSON},
		{"truncated", `[{"mapping": {`, apperrors.ErrorTypeMalformedJSON},
		{"garbage", `not json`, apperrors.ErrorTypeMalformedJSON},
		{"object", `{"mapping": {}}`, apperrors.ErrorTypeInvalidFormat},
		{"string", `"conversations"`, apperrors.ErrorTypeInvalidFormat},
		{"null", `null`, apperrors.ErrorTypeInvalidFormat},
		{"number", `12`, apperrors.ErrorTypeInvalidFormat},
		{"null conversation", `[null]`, apperrors.ErrorTypeProcessing},
		{"null mapping entry", `[{"mapping": {"a": null}}]`, apperrors.ErrorTypeProcessing},
		{"mapping not object", `[{"mapping": [1, 2]}]`, apperrors.ErrorTypeProcessing},
		{"null part", `[{"mapping": {"a": {"message": {"content": {"parts": ["hello hello", null]}}}}}]`, apperrors.ErrorTypeProcessing},
		{"parts number", `[{"mapping": {"a": {"message": {"content": {"parts": 7}}}}}]`, apperrors.ErrorTypeProcessing},
		{"parts object", `[{"mapping": {"a": {"message": {"content": {"parts": {"0": "x"}}}}}}]`, apperrors.ErrorTypeProcessing},
		{"conversation not object", `[1]`, apperrors.ErrorTypeProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			convs, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, convs)
			assert.True(t, apperrors.IsErrorType(err, tt.errType), "got %v", err)
		})
	}
}

func TestParse_InvalidFormatReportsKind(t *testing.T) {
	_, err := Parse([]byte(`{"a": 1}`))
	var invalid *apperrors.ErrInvalidFormat
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "object", invalid.Found)
}

func TestMapping_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	convs, err := Parse([]byte(`[{"mapping": {
		"a": {"message": {"content": {"parts": ["first"]}}},
		"b": {"message": null},
		"a": {"message": {"content": {"parts": ["second"]}}}
	}}]`))
	require.NoError(t, err)

	entries := convs[0].Mapping.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "second", entries[0].Node.Message.Content.Parts[0].Text)
}

func TestPart_StructuredText(t *testing.T) {
	tests := []struct {
		input string
		want  Part
	}{
		{`{"text": ""}`, Part{Kind: PartUnknown}},
		{`{"text": false}`, Part{Kind: PartUnknown}},
		{`{"text": 0}`, Part{Kind: PartUnknown}},
		{`{"text": null}`, Part{Kind: PartUnknown}},
		{`{"image": "x"}`, Part{Kind: PartUnknown}},
		{`["array", "part"]`, Part{Kind: PartUnknown}},
		{`{"text": "plain"}`, StructuredPart("plain")},
		{`{"text": true}`, StructuredPart("true")},
		{`{"text": 7}`, StructuredPart("7")},
		{`{"text": {"nested": 1}}`, StructuredPart("[object Object]")},
		{`{"text": ["alpha", null, ["beta", false]]}`, StructuredPart("alpha,,beta,false")},
	}

	for _, tt := range tests {
		var p Part
		require.NoError(t, p.UnmarshalJSON([]byte(tt.input)), tt.input)
		assert.Equal(t, tt.want, p, tt.input)
	}
	assert.Equal(t, "unknown", PartUnknown.String())
}

func TestPart_NullIsError(t *testing.T) {
	var p Part
	assert.Error(t, p.UnmarshalJSON([]byte(`null`)))
}

func TestParse_LooseMessageShapes(t *testing.T) {
	convs, err := Parse([]byte(`[{"mapping": {
		"string message": {"message": "x"},
		"false message": {"message": false},
		"empty message": {"message": ""},
		"string content": {"message": {"content": "abc"}},
		"string parts": {"message": {"content": {"parts": "hello"}}},
		"null parts": {"message": {"content": {"parts": null}}},
		"string node": "x",
		"number node": 5
	}}]`))
	require.NoError(t, err)

	entries := convs[0].Mapping.Entries()
	require.Len(t, entries, 8)

	assert.NotNil(t, entries[0].Node.Message)
	assert.Nil(t, entries[0].Node.Message.TextParts())
	assert.Nil(t, entries[1].Node.Message)
	assert.Nil(t, entries[2].Node.Message)
	assert.Nil(t, entries[3].Node.Message.Content)
	assert.Empty(t, entries[4].Node.Message.Content.Parts)
	assert.Empty(t, entries[5].Node.Message.Content.Parts)
	assert.Nil(t, entries[6].Node.Message)
	assert.Nil(t, entries[7].Node.Message)
}
