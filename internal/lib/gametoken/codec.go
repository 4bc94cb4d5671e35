// Package gametoken реализует игровой токен — зашифрованный контейнер
// с общими учетными данными игрового аккаунта и датой истечения подписки
// пользователя. Сервер только выпускает токены; расшифровка происходит
// на стороне внешнего лаунчера, но Redeem реализован симметрично,
// чтобы закон redeem(issue(p)) == p был проверяем.
package gametoken

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrDecode возвращается Redeem при любом повреждённом или подделанном
// токене. Низкоуровневые ошибки шифрования наружу не выходят.
var ErrDecode = errors.New("invalid game token")

// Payload — содержимое игрового токена. Ключ "expired" — часть формата
// обмена с лаунчером, менять нельзя.
type Payload struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Expired  *time.Time `json:"expired"`
}

// Codec выпускает и принимает игровые токены, шифруя их AES-256-GCM.
// Ключ общий для всего процесса; его ротация инвалидирует все ранее
// выпущенные токены.
type Codec struct {
	key []byte
}

// New создаёт Codec с ключом, выведенным из секрета через SHA-256,
// чтобы длина ключа не зависела от длины значения в конфиге.
func New(secret string) *Codec {
	sum := sha256.Sum256([]byte(secret))
	return &Codec{key: sum[:]}
}

// Issue сериализует полезную нагрузку в JSON, шифрует её и возвращает
// транспортно-безопасную строку вида base64url(nonce || ciphertext).
func (c *Codec) Issue(p Payload) (string, error) {
	const op = "gametoken.Issue"

	plaintext, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ciphertext := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Redeem расшифровывает токен и возвращает полезную нагрузку.
// Любой некорректный вход даёт ErrDecode.
func (c *Codec) Redeem(token string) (*Payload, error) {
	const op = "gametoken.Redeem"

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDecode)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDecode)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDecode)
	}

	ns := aesgcm.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("%s: %w", op, ErrDecode)
	}
	nonce, ciphertext := data[:ns], data[ns:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDecode)
	}

	var p Payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDecode)
	}
	return &p, nil
}
