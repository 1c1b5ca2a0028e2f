package fieldcrypt

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
}

func TestEncryptDecrypt(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)

	enc, err := c.Encrypt("010-1234-5678")
	require.NoError(t, err)
	assert.True(t, IsEncrypted(enc))
	assert.NotContains(t, enc, "1234")

	again, err := c.Encrypt("010-1234-5678")
	require.NoError(t, err)
	assert.NotEqual(t, enc, again, "nonce must differ per call")

	plain, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "010-1234-5678", plain)
}

func TestEncryptIsIdempotentOnCiphertext(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)

	enc, _ := c.Encrypt("secret")
	twice, err := c.Encrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, enc, twice)
}

func TestDecryptPlaintextPassesThrough(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)

	plain, err := c.Decrypt("legacy-plain")
	require.NoError(t, err)
	assert.Equal(t, "legacy-plain", plain)
}

func TestDecryptTampered(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)

	_, err = c.Decrypt(Prefix + "!!!")
	assert.ErrorIs(t, err, ErrMalformed)

	enc, _ := c.Encrypt("secret")
	raw, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(enc, Prefix))
	raw[len(raw)-1] ^= 0xff
	_, err = c.Decrypt(Prefix + base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestNewRejectsBadKeys(t *testing.T) {
	_, err := New("not base64!")
	assert.Error(t, err)

	_, err = New(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)

	c, err := New("")
	require.NoError(t, err)
	assert.IsType(t, Passthrough{}, c)
}

func TestPtrHelpers(t *testing.T) {
	c, _ := New(testKey())

	out, err := EncryptPtr(c, nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	v := "payout-123"
	enc, err := EncryptPtr(c, &v)
	require.NoError(t, err)
	dec, err := DecryptPtr(c, enc)
	require.NoError(t, err)
	assert.Equal(t, v, *dec)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "***-****-5678", MaskPhone("010-1234-5678"))
	assert.Equal(t, "***", MaskPhone("123"))
}
