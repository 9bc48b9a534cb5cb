package qrcode_test

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/assetshield/adminauth/pkg/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uri = "otpauth://totp/AssetShield:ops%40example.com?secret=JBSWY3DPEHPK3PXP&issuer=AssetShield&algorithm=SHA1&digits=6&period=30"

func TestPNG(t *testing.T) {
	t.Parallel()

	data, err := qrcode.PNG(uri, 200)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestPNG_DefaultSize(t *testing.T) {
	t.Parallel()

	data, err := qrcode.PNG(uri, 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, qrcode.DefaultSize, img.Bounds().Dx())
}

func TestPNG_EmptyContent(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "  \t\n"} {
		data, err := qrcode.PNG(content, 256)
		require.ErrorIs(t, err, qrcode.ErrEmptyContent)
		assert.Nil(t, data)
	}
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	got, err := qrcode.DataURI(uri, 128)
	require.NoError(t, err)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(got, prefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, prefix))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}
