package staticfile

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/require"
)

func TestDeriveHashKey(t *testing.T) {
	secret := strings.Repeat("s", 32)

	key, err := DeriveHashKey(secret)
	require.NoError(t, err)
	require.Len(t, key, 32)
	require.NotEqual(t, []byte(secret), key)

	again, err := DeriveHashKey(secret)
	require.NoError(t, err)
	require.Equal(t, key, again, "same secret gives the same key")

	other, err := DeriveHashKey(strings.Repeat("t", 32))
	require.NoError(t, err)
	require.NotEqual(t, key, other)

	empty, err := DeriveHashKey("")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestDerivedKeyVerifiesCookies(t *testing.T) {
	key, err := DeriveHashKey(strings.Repeat("s", 32))
	require.NoError(t, err)

	codec := securecookie.New(key, nil)
	app, err := codec.Encode(AppCookie, "shop")
	require.NoError(t, err)
	version, err := codec.Encode(KeyCookie, "v1")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	r.AddCookie(&http.Cookie{Name: AppCookie, Value: app})
	r.AddCookie(&http.Cookie{Name: KeyCookie, Value: version})

	fullPath, outcome := NewResolver(WithCookieSecret(key)).Resolve(r)
	require.Equal(t, Handled, outcome)
	require.Equal(t, "files/shop/v1/index.html", fullPath)
}
