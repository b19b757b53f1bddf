package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"errors"
)

// LegacyMarker - префикс конвертов первой версии (CryptoJS passphrase mode).
// Такие конверты только расшифровываются, новые не создаются.
const LegacyMarker = "ENCv1:"

// cloudIterations - число итераций PBKDF2 «облачного» варианта без маркера.
const cloudIterations = 50000

const opensslSaltHeader = "Salted__"

// CloudPassword собирает строку пароля так, как её собирал облачный вариант:
// ключ выводился из "<site>::<password>".
func CloudPassword(site, password string) string {
	return site + "::" + password
}

// decryptCryptoJS расшифровывает base64 блоб формата OpenSSL "Salted__":
// EVP_BytesToKey(MD5) → AES-256-CBC с PKCS#7.
func decryptCryptoJS(b64, password string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	if len(raw) < 16+aes.BlockSize || string(raw[:8]) != opensslSaltHeader {
		return nil, errors.New("not an openssl salted blob")
	}
	salt := raw[8:16]
	ct := raw[16:]
	if len(ct)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext is not a multiple of the block size")
	}
	key, iv := evpBytesToKey([]byte(password), salt, keyLen, aes.BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)
	plain, err = pkcs7Unpad(plain)
	if err != nil {
		return nil, err
	}
	// CryptoJS при неверном пароле часто отдаёт пустую строку - считаем это ошибкой
	if len(plain) == 0 {
		return nil, errors.New("empty plaintext")
	}
	return plain, nil
}

func evpBytesToKey(password, salt []byte, keyLen, ivLen int) ([]byte, []byte) {
	var out, prev []byte
	for len(out) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(password)
		h.Write(salt)
		prev = h.Sum(nil)
		out = append(out, prev...)
	}
	return out[:keyLen], out[keyLen : keyLen+ivLen]
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 || len(b)%aes.BlockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize {
		return nil, errors.New("invalid padding")
	}
	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, errors.New("invalid padding")
	}
	return b[:len(b)-n], nil
}
