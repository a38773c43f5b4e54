package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/askoura/todolists/internal/store"
)

func newTestHandler(t *testing.T) (*Handler, *store.Store, *MemoryStore) {
	t.Helper()
	db, err := store.Open("", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })

	sessions := NewMemoryStore()
	return NewHandler(db, sessions, 30*24*time.Hour), db, sessions
}

func postForm(handler http.HandlerFunc, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterThenLogin(t *testing.T) {
	h, db, sessions := newTestHandler(t)
	ctx := context.Background()

	rec := postForm(h.Register, url.Values{"username": {"alice"}, "password": {"pw1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// registration stores a verifiable hash, never the plain password
	user, err := db.UserByName(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("pw1")))

	// and logs the new user in
	sc := cookieNamed(rec, SessionCookie)
	require.NotNil(t, sc)
	userID, err := sessions.Get(ctx, sc.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// a fresh login with the same credentials succeeds
	rec = postForm(h.Login, url.Values{"username": {"alice"}, "password": {"pw1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	sc = cookieNamed(rec, SessionCookie)
	require.NotNil(t, sc)
	userID, err = sessions.Get(ctx, sc.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx := context.Background()

	postForm(h.Register, url.Values{"username": {"alice"}, "password": {"pw1"}})
	first, err := db.UserByName(ctx, "alice")
	require.NoError(t, err)

	rec := postForm(h.Register, url.Values{"username": {"alice"}, "password": {"pw2"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))
	assert.NotNil(t, cookieNamed(rec, "flash"))
	assert.Nil(t, cookieNamed(rec, SessionCookie))

	// the account is unchanged: the first password works, the second doesn't
	again, err := db.UserByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(again.Password), []byte("pw1")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(again.Password), []byte("pw2")))
}

func TestLoginInvalidCredentials(t *testing.T) {
	h, _, _ := newTestHandler(t)

	postForm(h.Register, url.Values{"username": {"alice"}, "password": {"pw1"}})

	// same response for a bad password and an unknown user
	for _, form := range []url.Values{
		{"username": {"alice"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"pw1"}},
	} {
		rec := postForm(h.Login, form)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.Nil(t, cookieNamed(rec, SessionCookie))
		assert.NotNil(t, cookieNamed(rec, "flash"))
	}
}

func TestLoginRememberIssuesPersistentCookie(t *testing.T) {
	h, _, _ := newTestHandler(t)

	postForm(h.Register, url.Values{"username": {"alice"}, "password": {"pw1"}})

	rec := postForm(h.Login, url.Values{"username": {"alice"}, "password": {"pw1"}})
	sc := cookieNamed(rec, SessionCookie)
	require.NotNil(t, sc)
	assert.Zero(t, sc.MaxAge, "plain login should issue a browser-session cookie")

	rec = postForm(h.Login, url.Values{
		"username": {"alice"}, "password": {"pw1"}, "remember": {"on"},
	})
	sc = cookieNamed(rec, SessionCookie)
	require.NotNil(t, sc)
	assert.Equal(t, int(30*24*time.Hour/time.Second), sc.MaxAge)
}

func TestLogoutClearsSession(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	ctx := context.Background()

	rec := postForm(h.Register, url.Values{"username": {"alice"}, "password": {"pw1"}})
	sc := cookieNamed(rec, SessionCookie)
	require.NotNil(t, sc)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sc.Value})
	out := httptest.NewRecorder()
	h.Logout(out, req)

	assert.Equal(t, http.StatusFound, out.Code)
	assert.Equal(t, "/", out.Header().Get("Location"))

	userID, err := sessions.Get(ctx, sc.Value)
	require.NoError(t, err)
	assert.Zero(t, userID)

	cleared := cookieNamed(out, SessionCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}
