package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	contentType, payload, err := parseDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("hello"), payload)
}

func TestParseDataURIMalformed(t *testing.T) {
	for _, data := range []string{
		"data:image/png,no-base64-marker",
		"data:image/png;base64",
		"data:image/png;base64,%%%not-base64%%%",
	} {
		_, _, err := parseDataURI(data)
		assert.Error(t, err, "input %q", data)
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, "", extensionFor("application/pdf"))
}
