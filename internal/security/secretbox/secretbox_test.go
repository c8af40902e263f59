package secretbox

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	return raw
}

func TestSealOpen(t *testing.T) {
	box, err := New(base64.StdEncoding.EncodeToString(testKey()))
	require.NoError(t, err)

	sealed, err := box.Encrypt("postgres://u:p@db/mentorlink")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "mentorlink")

	plain, err := box.Open(Prefix + sealed)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/mentorlink", plain)

	plain, err = box.Open("not sealed")
	require.NoError(t, err)
	assert.Equal(t, "not sealed", plain)
}

func TestKeyFormats(t *testing.T) {
	raw := testKey()
	for name, key := range map[string]string{
		"base64":     base64.StdEncoding.EncodeToString(raw),
		"base64-raw": base64.RawStdEncoding.EncodeToString(raw),
		"hex":        hex.EncodeToString(raw),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(key)
			assert.NoError(t, err)
		})
	}

	_, err := New("short")
	assert.Error(t, err)
}

func TestDecryptDetectsTamper(t *testing.T) {
	box, err := New(hex.EncodeToString(testKey()))
	require.NoError(t, err)

	sealed, err := box.Encrypt("top secret")
	require.NoError(t, err)
	parts := strings.Split(sealed, "|")
	require.Len(t, parts, 2)

	ct, err := base64.StdEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	ct[0] ^= 0xFF
	_, err = box.Decrypt(parts[0] + "|" + base64.StdEncoding.EncodeToString(ct))
	assert.Error(t, err)

	_, err = box.Decrypt("garbage")
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvKey, "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrNoKey)

	t.Setenv(EnvKey, base64.StdEncoding.EncodeToString(testKey()))
	_, err = FromEnv()
	assert.NoError(t, err)
}
