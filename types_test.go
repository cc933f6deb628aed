package settlersdb_test

import (
	"encoding/json"
	"testing"

	"github.com/sagarc03/settlersdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_JSONHidesPassword(t *testing.T) {
	a := settlersdb.Account{Nickname: "alice", Host: "localhost", Password: "secret"}

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"nickname":"alice"`)
	assert.NotContains(t, string(b), "email", "empty email is omitted")
}

func TestIsConnectivity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"driver unavailable", settlersdb.ErrDriverUnavailable, true},
		{"connect", settlersdb.ErrConnect, true},
		{"query", settlersdb.ErrQuery, false},
		{"config", settlersdb.ErrConfig, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, settlersdb.IsConnectivity(tt.err))
		})
	}
}
