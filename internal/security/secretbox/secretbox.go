// Package secretbox cifra secretos de configuración (DSN, passwords SMTP)
// con AES-256-GCM. Formato: base64(nonce)|base64(ciphertext).
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// EnvKey es la variable con la clave maestra.
	EnvKey = "SECRETBOX_MASTER_KEY"
	// Prefix marca un valor cifrado dentro del YAML o del entorno.
	Prefix = "enc:"

	nonceSize = 12
	keyLen    = 32
	sep       = "|"
)

// ErrNoKey se devuelve cuando hay valores cifrados y no hay clave.
var ErrNoKey = errors.New("secretbox: " + EnvKey + " not set (generate one with: openssl rand -base64 32)")

// Box cifra y descifra con una clave fija.
type Box struct {
	aead cipher.AEAD
}

// New crea un Box. key puede venir en base64 (con o sin padding), hex o
// crudo; debe decodificar a 32 bytes.
func New(key string) (*Box, error) {
	k, err := parseKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("secretbox: aes: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secretbox: gcm: %w", err)
	}
	return &Box{aead: aead}, nil
}

// FromEnv crea un Box con la clave de SECRETBOX_MASTER_KEY.
func FromEnv() (*Box, error) {
	key := strings.TrimSpace(os.Getenv(EnvKey))
	if key == "" {
		return nil, ErrNoKey
	}
	return New(key)
}

func parseKey(key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if b, err := base64.StdEncoding.DecodeString(key); err == nil && len(b) == keyLen {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(key); err == nil && len(b) == keyLen {
		return b, nil
	}
	if len(key) == 2*keyLen {
		if b, err := hex.DecodeString(key); err == nil {
			return b, nil
		}
	}
	if len(key) == keyLen {
		return []byte(key), nil
	}
	return nil, fmt.Errorf("secretbox: key must decode to %d bytes", keyLen)
}

// Encrypt devuelve base64(nonce)|base64(ciphertext).
func (b *Box) Encrypt(plain string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secretbox: nonce: %w", err)
	}
	ct := b.aead.Seal(nil, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(nonce) + sep + base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt invierte Encrypt.
func (b *Box) Decrypt(sealed string) (string, error) {
	parts := strings.Split(strings.TrimSpace(sealed), sep)
	if len(parts) != 2 {
		return "", errors.New("secretbox: expected base64(nonce)|base64(ciphertext)")
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("secretbox: nonce: %w", err)
	}
	if len(nonce) != nonceSize {
		return "", fmt.Errorf("secretbox: nonce must be %d bytes", nonceSize)
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("secretbox: ciphertext: %w", err)
	}
	pt, err := b.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("secretbox: open: %w", err)
	}
	return string(pt), nil
}

// IsSealed indica si v trae el prefijo enc:.
func IsSealed(v string) bool {
	return strings.HasPrefix(strings.TrimSpace(v), Prefix)
}

// Open descifra v si está sellado; si no, lo devuelve tal cual.
func (b *Box) Open(v string) (string, error) {
	if !IsSealed(v) {
		return v, nil
	}
	return b.Decrypt(strings.TrimPrefix(strings.TrimSpace(v), Prefix))
}
