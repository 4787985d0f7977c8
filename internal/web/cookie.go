package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/automize/automize/internal/tokenstore"
)

// Sign appends an HMAC-SHA256 signature of value under secret.
func Sign(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return value + "." + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a value produced by Sign and returns the original value.
func Verify(signed, secret string) (string, bool) {
	dot := strings.LastIndexByte(signed, '.')
	if dot <= 0 || dot == len(signed)-1 {
		return "", false
	}
	value, sig := signed[:dot], signed[dot+1:]
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return value, true
}

// cookieStore is the browser's token slot: a signed HttpOnly cookie named
// tokenstore.Key. It lives for one request; writes are remembered so a
// later Load in the same request sees them.
type cookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secret string
	secure bool

	written bool
	token   string
}

var _ tokenstore.Store = (*cookieStore)(nil)

func (c *cookieStore) Load() (string, error) {
	if c.written {
		return c.token, nil
	}
	ck, err := c.r.Cookie(tokenstore.Key)
	if err != nil || ck.Value == "" {
		return "", nil
	}
	token, ok := Verify(ck.Value, c.secret)
	if !ok {
		return "", nil
	}
	return token, nil
}

func (c *cookieStore) Save(token string) error {
	c.written, c.token = true, token
	http.SetCookie(c.w, c.cookie(Sign(token, c.secret), 0))
	return nil
}

func (c *cookieStore) Clear() error {
	_, err := c.r.Cookie(tokenstore.Key)
	present := err == nil || (c.written && c.token != "")
	c.written, c.token = true, ""
	if present {
		http.SetCookie(c.w, c.cookie("", -1))
	}
	return nil
}

func (c *cookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     tokenstore.Key,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}
