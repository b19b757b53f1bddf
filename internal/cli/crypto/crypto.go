package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

// Marker - префикс канонического конверта: "ENCv2:" + base64(salt || iv || ciphertext).
const Marker = "ENCv2:"

const (
	// keyLen - длина ключа для AES‑256 (в байтах).
	keyLen = 32
	// saltLen - длина случайной соли PBKDF2.
	saltLen = 16
	// nonceLen - длина nonce для AES‑GCM.
	nonceLen = 12
	// Iterations - число итераций PBKDF2 для канонического конверта.
	Iterations = 100000
)

var (
	// ErrDecryptionFailed возвращается при любой ошибке расшифровки: неверный пароль,
	// повреждённые данные или неизвестный формат намеренно не различаются.
	ErrDecryptionFailed = errors.New("decryption failed: wrong password or corrupted data")
	// ErrEmptyPassword - попытка шифрования с пустым паролем.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrInvalidUTF8 - открытый текст не является корректным UTF-8.
	ErrInvalidUTF8 = errors.New("plaintext is not valid UTF-8")
)

// IsEnvelope сообщает, несёт ли строка маркер зашифрованного конверта
// (канонического или legacy ENCv1).
func IsEnvelope(s string) bool {
	return strings.HasPrefix(s, Marker) || strings.HasPrefix(s, LegacyMarker)
}

// Encrypt шифрует plaintext паролем и возвращает самоописывающий конверт.
// Каждый вызов использует новую соль и новый nonce, поэтому результат недетерминирован.
func Encrypt(plaintext, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	// заметки - текст: то, что нельзя вернуть строкой, не шифруем
	if !utf8.ValidString(plaintext) {
		return "", ErrInvalidUTF8
	}
	raw, err := sealFramed([]byte(plaintext), password, Iterations)
	if err != nil {
		return "", err
	}
	return Marker + base64.StdEncoding.EncodeToString(raw), nil
}

// Decrypt разбирает конверт, заново выводит ключ и расшифровывает содержимое.
// Поддерживает канонический формат, legacy ENCv1 (CryptoJS) и «голый» формат
// облачного варианта. Любая ошибка сводится к ErrDecryptionFailed.
func Decrypt(envelope, password string) (string, error) {
	env := strings.TrimSpace(envelope)
	if env == "" || password == "" {
		return "", ErrDecryptionFailed
	}

	var (
		plain []byte
		err   error
	)
	switch {
	case strings.HasPrefix(env, Marker):
		raw, decErr := base64.StdEncoding.DecodeString(env[len(Marker):])
		if decErr != nil {
			return "", ErrDecryptionFailed
		}
		plain, err = openFramed(raw, password, Iterations)
	case strings.HasPrefix(env, LegacyMarker):
		// CBC без MAC: неверный пароль ловим по паддингу и UTF-8
		plain, err = decryptCryptoJS(env[len(LegacyMarker):], password)
		if err == nil && !utf8.Valid(plain) {
			err = ErrDecryptionFailed
		}
	default:
		raw, decErr := base64.StdEncoding.DecodeString(env)
		if decErr != nil {
			return "", ErrDecryptionFailed
		}
		plain, err = openFramed(raw, password, cloudIterations)
	}
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
}

// sealFramed возвращает salt || nonce || ciphertext.
func sealFramed(plain []byte, password string, iterations int) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	key := deriveKey(password, salt, iterations)
	ct, nonce, err := seal(plain, key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(salt)+len(nonce)+len(ct))
	out = append(out, salt...)
	out = append(out, nonce...)
	return append(out, ct...), nil
}

func openFramed(raw []byte, password string, iterations int) ([]byte, error) {
	if len(raw) < saltLen+nonceLen {
		return nil, errors.New("envelope too short")
	}
	salt := raw[:saltLen]
	nonce := raw[saltLen : saltLen+nonceLen]
	key := deriveKey(password, salt, iterations)
	return open(raw[saltLen+nonceLen:], nonce, key)
}

// seal шифрует данные plain с помощью AES‑GCM и заданного ключа.
// Возвращает шифртекст и nonce.
func seal(plain []byte, key []byte) ([]byte, []byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	out := gcm.Seal(nil, nonce, plain, nil)
	return out, nonce, nil
}

// open расшифровывает шифртекст с использованием AES‑GCM, ключа и nonce.
func open(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}
