package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMatchesKind(t *testing.T) {
	err := Auth("token expired", 401)
	require.ErrorIs(t, err, ErrAuth)
	require.NotErrorIs(t, err, ErrNetwork)

	wrapped := fmt.Errorf("fetch entries: %w", err)
	require.ErrorIs(t, wrapped, ErrAuth)
	require.Equal(t, KindAuth, KindOf(wrapped))
}

func TestNoCredentialIsAuth(t *testing.T) {
	require.ErrorIs(t, ErrNoCredential, ErrAuth)
	require.Equal(t, "no credential, please log in", ErrNoCredential.Error())
}

func TestFromWrapsPlainErrors(t *testing.T) {
	plain := errors.New("boom")
	got := From(plain, "an unexpected error occurred")
	require.Equal(t, KindUnknown, got.Kind)
	require.Equal(t, "an unexpected error occurred", got.Error())
	require.ErrorIs(t, got, plain)

	classified := Conflict("this email address is already in use", 400)
	require.Same(t, classified, From(classified, "ignored"))
	require.Nil(t, From(nil, "ignored"))
}

func TestMessage(t *testing.T) {
	require.Equal(t, "", Message(nil))
	require.Equal(t, "bad", Message(Validation("bad")))
	require.Equal(t, "raw", Message(errors.New("raw")))
}
