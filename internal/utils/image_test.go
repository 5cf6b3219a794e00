package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64Image(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01}
	enc := base64.StdEncoding.EncodeToString(raw)

	t.Run("plain base64", func(t *testing.T) {
		b, err := DecodeBase64Image(enc)
		require.NoError(t, err)
		assert.Equal(t, raw, b)
	})

	t.Run("data url", func(t *testing.T) {
		b, err := DecodeBase64Image("data:image/jpeg;base64," + enc)
		require.NoError(t, err)
		assert.Equal(t, raw, b)
	})

	t.Run("missing padding", func(t *testing.T) {
		b, err := DecodeBase64Image(base64.RawStdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, b)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeBase64Image("data:image/png;base64,")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeBase64Image("not base64 at all!")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}
