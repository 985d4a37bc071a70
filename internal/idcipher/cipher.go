// Package idcipher は内部のカートIDを外部公開用の不透明トークンへ暗号化する。
//
// トークン形式は "<nonceHex>:<cipherHex>"。鍵は secret と salt から scrypt で一度だけ導出し、
// AES-256-GCM で暗号化するため、改ざんされたトークンは必ず復号に失敗する。
package idcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// 復号できないトークンは全てこれを wrap して返す
var ErrInvalidToken = errors.New("invalid token")

const (
	keyLen   = 32
	scryptN  = 16384
	scryptR  = 8
	scryptP  = 1
	sepToken = ":"
)

type Cipher struct {
	aead  cipher.AEAD
	nonce io.Reader
}

// New は secret から鍵を導出する。secret が空ならエラー。
func New(secret, salt string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("idcipher: secret is required")
	}
	if salt == "" {
		return nil, errors.New("idcipher: salt is required")
	}
	key, err := scrypt.Key([]byte(secret), []byte(salt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("idcipher: derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("idcipher: new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("idcipher: new gcm: %w", err)
	}
	return &Cipher{aead: aead, nonce: rand.Reader}, nil
}

// Encode は毎回新しいnonceを使うので同じIDでも異なるトークンになる。
func (c *Cipher) Encode(id int64) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("idcipher: negative id %d", id)
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(c.nonce, nonce); err != nil {
		return "", fmt.Errorf("idcipher: read nonce: %w", err)
	}
	ct := c.aead.Seal(nil, nonce, []byte(strconv.FormatInt(id, 10)), nil)
	return hex.EncodeToString(nonce) + sepToken + hex.EncodeToString(ct), nil
}

func (c *Cipher) Decode(token string) (int64, error) {
	parts := strings.Split(token, sepToken)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: malformed", ErrInvalidToken)
	}
	nonce, err := decodeHex(parts[0])
	if err != nil {
		return 0, err
	}
	if len(nonce) != c.aead.NonceSize() {
		return 0, fmt.Errorf("%w: nonce size", ErrInvalidToken)
	}
	ct, err := decodeHex(parts[1])
	if err != nil {
		return 0, err
	}
	plain, err := c.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: authentication failed", ErrInvalidToken)
	}
	s := string(plain)
	// 先頭の "+" や空白は Encode が作らないので拒否
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, fmt.Errorf("%w: payload", ErrInvalidToken)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: payload", ErrInvalidToken)
	}
	return id, nil
}

func (c *Cipher) IsValid(token string) bool {
	_, err := c.Decode(token)
	return err == nil
}

// 大文字hexなどEncodeが出さない表記は弾く
func decodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty part", ErrInvalidToken)
	}
	b, err := hex.DecodeString(s)
	if err != nil || hex.EncodeToString(b) != s {
		return nil, fmt.Errorf("%w: hex", ErrInvalidToken)
	}
	return b, nil
}
