package gametoken

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueRedeem_RoundTrip(t *testing.T) {
	codec := New("test_game_token_key")
	expiry := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		payload Payload
	}{
		{
			name: "обычный аккаунт с датой истечения",
			payload: Payload{
				Username: "shared_account",
				Password: "shared_password",
				Expired:  &expiry,
			},
		},
		{
			name: "бессрочная подписка",
			payload: Payload{
				Username: "shared_account",
				Password: "shared_password",
				Expired:  nil,
			},
		},
		{
			name: "пароль со спецсимволами",
			payload: Payload{
				Username: "user@game",
				Password: `p"a's\s{w}0rd`,
				Expired:  &expiry,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := codec.Issue(tt.payload)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			got, err := codec.Redeem(token)
			require.NoError(t, err)
			assert.Equal(t, tt.payload.Username, got.Username)
			assert.Equal(t, tt.payload.Password, got.Password)
			if tt.payload.Expired == nil {
				assert.Nil(t, got.Expired)
			} else {
				require.NotNil(t, got.Expired)
				assert.True(t, tt.payload.Expired.Equal(*got.Expired))
			}
		})
	}
}

func TestCodec_Redeem_InvalidInput(t *testing.T) {
	codec := New("test_game_token_key")

	valid, err := codec.Issue(Payload{Username: "u", Password: "p"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "пустая строка", token: ""},
		{name: "не base64", token: "%%%not-base64%%%"},
		{name: "слишком короткий шифртекст", token: base64.RawURLEncoding.EncodeToString([]byte("short"))},
		{name: "подделанный токен", token: tamper(t, valid)},
		{name: "чужой ключ", token: issueWithOtherKey(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Redeem(tt.token)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrDecode), "expected ErrDecode, got %v", err)
		})
	}
}

func TestCodec_TokensAreOpaque(t *testing.T) {
	codec := New("test_game_token_key")
	p := Payload{Username: "shared_account", Password: "shared_password"}

	token, err := codec.Issue(p)
	require.NoError(t, err)

	assert.NotContains(t, token, p.Username)
	assert.NotContains(t, token, p.Password)
}

func tamper(t *testing.T, token string) string {
	data, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	return base64.RawURLEncoding.EncodeToString(data)
}

func issueWithOtherKey(t *testing.T) string {
	other := New("completely_different_key")
	token, err := other.Issue(Payload{Username: "u", Password: "p"})
	require.NoError(t, err)
	return token
}
