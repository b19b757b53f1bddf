package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encryptCryptoJS повторяет CryptoJS.AES.encrypt(plain, passphrase).toString().
func encryptCryptoJS(t *testing.T, plain, password string) string {
	t.Helper()
	salt := make([]byte, 8)
	_, err := io.ReadFull(rand.Reader, salt)
	require.NoError(t, err)
	key, iv := evpBytesToKey([]byte(password), salt, keyLen, aes.BlockSize)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	n := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append([]byte(plain), bytes.Repeat([]byte{byte(n)}, n)...)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)
	raw := append([]byte(opensslSaltHeader), salt...)
	raw = append(raw, ct...)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecrypt_LegacyCryptoJS(t *testing.T) {
	env := LegacyMarker + encryptCryptoJS(t, "buy milk", "secret123")
	assert.True(t, IsEnvelope(env))

	got, err := Decrypt(env, "secret123")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got)

	_, err = Decrypt(env, "wrong")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_LegacyCryptoJS_EmptyPlaintextIsFailure(t *testing.T) {
	env := LegacyMarker + encryptCryptoJS(t, "", "pw")
	_, err := Decrypt(env, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_LegacyCloud(t *testing.T) {
	pw := CloudPassword("groceries", "hunter2")
	assert.Equal(t, "groceries::hunter2", pw)

	raw, err := sealFramed([]byte("eggs"), pw, cloudIterations)
	require.NoError(t, err)
	env := base64.StdEncoding.EncodeToString(raw)
	assert.False(t, IsEnvelope(env), "cloud blobs carry no marker")

	got, err := Decrypt(env, pw)
	require.NoError(t, err)
	assert.Equal(t, "eggs", got)

	_, err = Decrypt(env, CloudPassword("other", "hunter2"))
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEvpBytesToKey_Lengths(t *testing.T) {
	key, iv := evpBytesToKey([]byte("pw"), []byte("12345678"), 32, 16)
	assert.Len(t, key, 32)
	assert.Len(t, iv, 16)

	key2, iv2 := evpBytesToKey([]byte("pw"), []byte("12345678"), 32, 16)
	assert.Equal(t, key, key2)
	assert.Equal(t, iv, iv2)
}

func TestPkcs7Unpad(t *testing.T) {
	block := append([]byte("abcdefghijklm"), 3, 3, 3)
	got, err := pkcs7Unpad(block)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdefghijklm"), got)

	bad := append([]byte("abcdefghijklm"), 1, 2, 3)
	_, err = pkcs7Unpad(bad)
	assert.Error(t, err)

	_, err = pkcs7Unpad([]byte{})
	assert.Error(t, err)

	zero := make([]byte, 16)
	_, err = pkcs7Unpad(zero)
	assert.Error(t, err)
}
