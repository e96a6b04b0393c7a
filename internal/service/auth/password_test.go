package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskdeck-api/internal/service/auth"
)

func TestBcryptVerifierHashAndCompare(t *testing.T) {
	t.Parallel()

	verifier := auth.NewBcryptVerifier(bcrypt.MinCost)

	hashed, err := verifier.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	assert.NoError(t, verifier.Compare(hashed, "correct horse battery staple"))
	assert.Error(t, verifier.Compare(hashed, "wrong password"))
}

func TestBcryptVerifierHashesAreSalted(t *testing.T) {
	t.Parallel()

	verifier := auth.NewBcryptVerifier(bcrypt.MinCost)

	first, err := verifier.Hash("same password")
	require.NoError(t, err)
	second, err := verifier.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewBcryptVerifierCostFallback(t *testing.T) {
	t.Parallel()

	// Out-of-range costs fall back to the default rather than failing at
	// hash time.
	verifier := auth.NewBcryptVerifier(99)

	hashed, err := verifier.Hash("some password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
