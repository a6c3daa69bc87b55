package auth_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ppmalta/AgroIPA/internal/auth"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token *auth.Token
		want  bool
	}{
		{
			name:  "nil token",
			token: nil,
			want:  false,
		},
		{
			name:  "empty access token",
			token: &auth.Token{},
			want:  false,
		},
		{
			name:  "no expiry never expires",
			token: &auth.Token{AccessToken: "token"},
			want:  true,
		},
		{
			name:  "valid with future expiry",
			token: &auth.Token{AccessToken: "token", ExpiresAt: time.Now().Add(time.Hour)},
			want:  true,
		},
		{
			name:  "expired",
			token: &auth.Token{AccessToken: "token", ExpiresAt: time.Now().Add(-time.Hour)},
			want:  false,
		},
		{
			name:  "expiring inside the buffer",
			token: &auth.Token{AccessToken: "token", ExpiresAt: time.Now().Add(10 * time.Second)},
			want:  false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, testCase.token.Valid())
		})
	}
}

func TestTokenStore(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()
	assert.Nil(t, store.Get())

	store.Set(&auth.Token{AccessToken: "token"})
	assert.Equal(t, "token", store.Get().AccessToken)

	store.Clear()
	assert.Nil(t, store.Get())
}

func TestTokenStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()

	var wg sync.WaitGroup

	for range 50 {
		wg.Add(2)

		go func() {
			defer wg.Done()
			store.Set(&auth.Token{AccessToken: "token"})
		}()

		go func() {
			defer wg.Done()
			_ = store.Get()
		}()
	}

	wg.Wait()

	assert.Equal(t, "token", store.Get().AccessToken)
}
