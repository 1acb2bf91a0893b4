package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/errors"
)

// A deep link with a contact block is the largest content rendered.
var deepLink = "https://tac.gouv.fr/" + strings.Repeat("A", 234)

func TestGenerateBytes(t *testing.T) {
	b, err := GenerateBytes(deepLink, 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	b, err = GenerateBytes(deepLink, 0)
	require.NoError(t, err)
	img, err = png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestGenerateDataURI(t *testing.T) {
	for _, level := range []Level{Low, Medium, High, Highest} {
		uri, err := GenerateWithLevel(deepLink, 256, level)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(uri, dataURIPrefix))
		_, err = base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, dataURIPrefix))
		assert.NoError(t, err)
	}
}

func TestGenerateToFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "venue.png")
	require.NoError(t, GenerateToFile(deepLink, 256, name))

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate("", 256)
	assert.True(t, errors.IsInvalidInput(err))

	err = GenerateToFile(deepLink, 256, filepath.Join(t.TempDir(), "missing", "venue.png"))
	assert.Equal(t, errors.CodeInternal, errors.Code(err))
}
