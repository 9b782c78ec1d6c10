package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)

	require.NoError(t, ComparePassword(hash, "correct horse"))
	require.Error(t, ComparePassword(hash, "battery staple"))
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
	hash, err := HashPassword("secret", 99)
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, "secret"))
}
