package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"128-bit token", TokenSize128, 22},
		{"256-bit token", TokenSize256, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.wantLen)

			token2, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, token2, "tokens should be unique")
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	a := FingerprintToken("token-a")
	require.Len(t, a, 43)
	require.Equal(t, a, FingerprintToken("token-a"))
	require.NotEqual(t, a, FingerprintToken("token-b"))
}

func TestGenerateRecoveryCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		code, err := GenerateRecoveryCode()
		require.NoError(t, err)
		require.Len(t, code, 11)
		require.Equal(t, byte('-'), code[5])

		for _, r := range strings.ReplaceAll(code, "-", "") {
			require.True(t, strings.ContainsRune(recoveryAlphabet, r), "unexpected %q", r)
		}

		require.False(t, seen[code])
		seen[code] = true
	}
}

func TestNormalizeRecoveryCode(t *testing.T) {
	require.Equal(t, "K7M2Q9XWRT", NormalizeRecoveryCode("K7M2Q-9XWRT"))
	require.Equal(t, "K7M2Q9XWRT", NormalizeRecoveryCode("k7m2q 9xwrt"))
	require.Equal(t, NormalizeRecoveryCode("K7M2Q-9XWRT"), NormalizeRecoveryCode("k7m2q9xwrt"))
}
