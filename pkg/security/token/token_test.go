package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusukebe/url-shortener/pkg/security/token"
)

func TestIssuedTokenVerifies(t *testing.T) {
	sealer := token.NewSealer([]byte("s3cret"))
	issued, err := sealer.Issue()
	require.NoError(t, err)
	assert.True(t, sealer.Verify(issued))
}

func TestIssuedTokensAreUnique(t *testing.T) {
	sealer := token.NewSealer([]byte("s3cret"))
	first, _ := sealer.Issue()
	second, _ := sealer.Issue()
	assert.NotEqual(t, first, second)
}

func TestTokenSignedWithOtherKeyRejected(t *testing.T) {
	issued, err := token.NewSealer([]byte("s3cret")).Issue()
	require.NoError(t, err)
	assert.False(t, token.NewSealer([]byte("another")).Verify(issued))
}

func TestTamperedTokenRejected(t *testing.T) {
	sealer := token.NewSealer([]byte("s3cret"))
	issued, err := sealer.Issue()
	require.NoError(t, err)

	parts := strings.SplitN(issued, ":", 2)
	tampered := "0000000000000000" + ":" + parts[1]
	assert.False(t, sealer.Verify(tampered))
}

func TestGarbageTokenRejected(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{
			name:  "empty value",
			value: "",
		},
		{
			name:  "no separator",
			value: "deadbeef",
		},
		{
			name:  "empty token part",
			value: ":c2lnbmF0dXJl",
		},
		{
			name:  "signature is not base64",
			value: "deadbeef:!!!",
		},
		{
			name:  "too many parts",
			value: "dead:beef:c2ln",
		},
	}
	sealer := token.NewSealer([]byte("s3cret"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, sealer.Verify(tt.value))
		})
	}
}
