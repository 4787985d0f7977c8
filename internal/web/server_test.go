package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/iac"
	"github.com/automize/automize/internal/library"
	"github.com/automize/automize/internal/tokenstore"
	"github.com/automize/automize/web"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// fakeAuth is an in-memory Auth Service.
type fakeAuth struct {
	mu       sync.Mutex
	accounts map[string]account // by email
	tokens   map[string]string  // token -> email
	down     bool
	meCalls  int
}

type account struct {
	id       string
	username string
	password string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		accounts: map[string]account{"ada@example.com": {id: "1", username: "ada", password: "hunter2"}},
		tokens:   map[string]string{},
	}
}

func (f *fakeAuth) Register(_ context.Context, username, email, password string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if email == "plain@example.com" {
		return nil, &authapi.Error{Op: authapi.OpRegister, Status: 409, Body: "Username <i>taken</i>\n", Fallback: "Registration failed"}
	}
	if _, ok := f.accounts[email]; ok {
		return nil, &authapi.Error{Op: authapi.OpRegister, Status: 409, Body: `{"message":"Email <b>already</b> registered"}`, Fallback: "Registration failed"}
	}
	f.accounts[email] = account{id: "id-" + username, username: username, password: password}
	return json.RawMessage(`{}`), nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*authapi.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, &authapi.Error{Op: authapi.OpLogin, Fallback: "Login failed", Err: io.ErrUnexpectedEOF}
	}
	a, ok := f.accounts[email]
	if !ok || a.password != password {
		return nil, &authapi.Error{Op: authapi.OpLogin, Status: 401, Body: `{"message":"Invalid credentials"}`, Fallback: "Login failed"}
	}
	tok := "tok-" + a.id
	f.tokens[tok] = email
	return &authapi.LoginResult{AccessToken: tok}, nil
}

func (f *fakeAuth) Me(_ context.Context, token string) (*authapi.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	email, ok := f.tokens[token]
	if !ok {
		return nil, &authapi.Error{Op: authapi.OpMe, Status: 401, Fallback: "Not authenticated"}
	}
	a := f.accounts[email]
	return &authapi.Profile{ID: authapi.ID(a.id), Username: a.username, Email: email}, nil
}

func (f *fakeAuth) profileLookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls
}

func (f *fakeAuth) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]string{}
}

type fixture struct {
	srv    *httptest.Server
	auth   *fakeAuth
	lib    *library.Store
	client *http.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	lib, err := library.Open(filepath.Join(t.TempDir(), "library.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })

	auth := newFakeAuth()
	s, err := New(Options{Auth: auth, Library: lib, Assets: web.Assets, CookieSecret: testSecret, Logger: zerolog.Nop()})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &fixture{srv: srv, auth: auth, lib: lib, client: &http.Client{Jar: jar}}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Get(f.srv.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (f *fixture) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.PostForm(f.srv.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	resp, body := f.post(t, "/auth/sign-in", url.Values{"email": {"ada@example.com"}, "password": {"hunter2"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	require.Equal(t, "/dashboard", resp.Request.URL.Path)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck // test
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{Auth: newFakeAuth(), Library: &library.Store{}, Assets: web.Assets})
	assert.ErrorContains(t, err, "cookie secret")
}

func TestHome_Anonymous(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h1>Your automation platform</h1>")
	assert.Contains(t, body, `href="/auth/sign-in"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestProtectedRedirectsAnonymous(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/dashboard", "/dashboard/create-iac", "/dashboard/configs/x"} {
		resp, _ := f.get(t, path)
		assert.Equal(t, "/auth/sign-in", resp.Request.URL.Path, path)
	}
}

func TestSignIn_SetsSignedCookie(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	u, _ := url.Parse(f.srv.URL)
	var token string
	for _, c := range f.client.Jar.Cookies(u) {
		if c.Name == tokenstore.Key {
			token = c.Value
		}
	}
	got, ok := Verify(token, testSecret)
	require.True(t, ok, "cookie must carry a valid signature")
	assert.Equal(t, "tok-1", got)

	_, body := f.get(t, "/dashboard")
	assert.Contains(t, body, "ada")
	assert.Contains(t, body, "No saved configurations yet.")
}

func TestSignIn_Failure(t *testing.T) {
	f := newFixture(t)
	resp, body := f.post(t, "/auth/sign-in", url.Values{"email": {"ada@example.com"}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="ada@example.com"`)

	resp, _ = f.post(t, "/auth/sign-in", url.Values{"email": {""}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	f.auth.down = true
	resp, body = f.post(t, "/auth/sign-in", url.Values{"email": {"ada@example.com"}, "password": {"hunter2"}})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Login failed")
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	resp, body := f.post(t, "/auth/sign-up", url.Values{
		"username": {"grace"}, "email": {"grace@example.com"}, "password": {"cobol"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	assert.Contains(t, body, "grace")
}

func TestSignUp_ServiceMessageIsSanitized(t *testing.T) {
	f := newFixture(t)
	resp, body := f.post(t, "/auth/sign-up", url.Values{
		"username": {"ada"}, "email": {"ada@example.com"}, "password": {"x"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "Email already registered")
	assert.NotContains(t, body, "<b>already</b>")
}

func TestSignUp_PlainTextServiceMessage(t *testing.T) {
	f := newFixture(t)
	resp, body := f.post(t, "/auth/sign-up", url.Values{
		"username": {"ada"}, "email": {"plain@example.com"}, "password": {"x"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "Username taken")
	assert.NotContains(t, body, "Registration failed")
	assert.NotContains(t, body, "<i>taken</i>")
}

func TestRevokedTokenIsCleared(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.auth.revokeAll()

	resp, _ := f.get(t, "/dashboard")
	assert.Equal(t, "/auth/sign-in", resp.Request.URL.Path)

	u, _ := url.Parse(f.srv.URL)
	for _, c := range f.client.Jar.Cookies(u) {
		assert.NotEqual(t, tokenstore.Key, c.Name, "rejected token cookie must be expired")
	}
}

func TestForgedCookieIsAnonymous(t *testing.T) {
	f := newFixture(t)
	u, _ := url.Parse(f.srv.URL)
	f.client.Jar.SetCookies(u, []*http.Cookie{{Name: tokenstore.Key, Value: Sign("tok-1", "other-secret"), Path: "/"}})

	resp, _ := f.get(t, "/dashboard")
	assert.Equal(t, "/auth/sign-in", resp.Request.URL.Path)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	resp, body := f.post(t, "/auth/logout", nil)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, `href="/auth/sign-up"`)

	resp, _ = f.get(t, "/dashboard")
	assert.Equal(t, "/auth/sign-in", resp.Request.URL.Path)
}

func TestCreateIaC_Preview(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	_, body := f.get(t, "/dashboard/create-iac")
	assert.Contains(t, body, "# Terraform Configuration")
	assert.Equal(t, len(iac.Keys()), strings.Count(body, `name="selected"`))

	_, body = f.post(t, "/dashboard/create-iac", url.Values{
		"action":         {"preview"},
		"selected":       {"provider", "tags"},
		"value.provider": {"eu-west-1"},
		"value.tags":     {"demo"},
		"value.module":   {"unselected"},
	})
	assert.Contains(t, body, `region = &quot;eu-west-1&quot;`)
	assert.Contains(t, body, `Project     = &quot;demo&quot;`)
	assert.NotContains(t, body, `name = &quot;unselected&quot;`)
}

func TestCreateIaC_UnknownField(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	resp, _ := f.post(t, "/dashboard/create-iac", url.Values{"selected": {"bogus"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateIaC_Download(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	resp, body := f.post(t, "/dashboard/create-iac", url.Values{
		"action": {"download"}, "selected": {"provider"}, "value.provider": {"us-east-1"},
	})
	assert.Equal(t, "text/yaml", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="terraform-config.tf"`, resp.Header.Get("Content-Disposition"))
	want, _ := iac.NewForm([]string{"provider"}, map[string]string{"provider": "us-east-1"})
	assert.Equal(t, want.Render(), body)
}

func TestCreateIaC_Clear(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	_, body := f.post(t, "/dashboard/create-iac", url.Values{
		"action": {"clear"}, "selected": {"provider"}, "value.provider": {"us-east-1"},
	})
	assert.NotContains(t, body, "us-east-1")
	assert.NotContains(t, body, " checked")
}

func TestSaveEditDeleteConfig(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	resp, body := f.post(t, "/dashboard/create-iac", url.Values{
		"action": {"save"}, "name": {"web tier"}, "selected": {"provider"}, "value.provider": {"us-east-1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	id := resp.Request.URL.Query().Get("config")
	require.NotEmpty(t, id)
	assert.Contains(t, body, "Configuration saved.")
	assert.Contains(t, body, `value="web tier"`)

	saved, err := f.lib.List(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, []string{"provider"}, saved[0].Form.Selected())

	_, body = f.get(t, "/dashboard")
	assert.Contains(t, body, "web tier")

	_, body = f.get(t, "/dashboard/configs/"+id)
	assert.Contains(t, body, "us-east-1")

	resp, _ = f.post(t, "/dashboard/create-iac", url.Values{
		"action": {"save"}, "config": {id}, "name": {"web tier v2"},
	})
	assert.Equal(t, id, resp.Request.URL.Query().Get("config"), "saving with an id updates in place")

	resp, _ = f.post(t, "/dashboard/configs/"+id+"/delete", nil)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	resp, _ = f.get(t, "/dashboard/configs/"+id)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConfigsAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	cfg := &library.Config{Owner: "someone-else", Name: "private"}
	require.NoError(t, f.lib.Save(context.Background(), cfg))

	f.signIn(t)
	resp, _ := f.get(t, "/dashboard/configs/"+cfg.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = f.post(t, "/dashboard/configs/"+cfg.ID+"/delete", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIRender(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(RenderRequest{Selected: []string{"provider"}, Values: map[string]string{"provider": "{{ .Secret }}"}})
	resp, err := f.client.Post(f.srv.URL+"/api/iac/render", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	f.signIn(t)
	resp, err = f.client.Post(f.srv.URL+"/api/iac/render", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck // test
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got RenderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got.Document, `region = "{{ .Secret }}"`)
}

func TestAPIRender_NoProfileLookup(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	before := f.auth.profileLookups()

	body, _ := json.Marshal(RenderRequest{Selected: []string{"provider"}, Values: map[string]string{"provider": "eu-west-1"}})
	for range 5 {
		resp, err := f.client.Post(f.srv.URL+"/api/iac/render", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, before, f.auth.profileLookups())
}

func TestAPIRender_ForgedCookie(t *testing.T) {
	f := newFixture(t)
	u, _ := url.Parse(f.srv.URL)
	f.client.Jar.SetCookies(u, []*http.Cookie{{Name: tokenstore.Key, Value: Sign("tok-1", "other-secret")}})

	resp, err := f.client.Post(f.srv.URL+"/api/iac/render", "application/json", strings.NewReader(`{"selected":["provider"]}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPIRender_BadRequest(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	for _, payload := range []string{`not json`, `{"selected":["nope"]}`, `{"selected":[],"extra":true}`} {
		resp, err := f.client.Post(f.srv.URL+"/api/iac/render", "application/json", strings.NewReader(payload))
		require.NoError(t, err)
		var e ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.NotEmpty(t, e.Error)
	}
}

func TestOpsEndpoints(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	_, _ = f.post(t, "/auth/sign-in", url.Values{"email": {"x@example.com"}, "password": {"bad"}})
	_, body = f.get(t, "/metrics")
	assert.Contains(t, body, `automize_http_requests_total{code="200",route="GET /healthz"} 1`)
	assert.Contains(t, body, `automize_auth_failures_total{op="login"} 1`)
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/static/create-iac.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/api/iac/render")
}

func TestSignVerify(t *testing.T) {
	signed := Sign("tok.with.dots", "k")
	got, ok := Verify(signed, "k")
	assert.True(t, ok)
	assert.Equal(t, "tok.with.dots", got)

	for _, bad := range []string{"", "nodot", ".sig", "value.", signed + "x"} {
		_, ok := Verify(bad, "k")
		assert.False(t, ok, bad)
	}
}
