package checkout

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "checkout_flash"

// flashMaxAge bounds how long an unread message survives. The message is meant
// to live for a single redirect hop, so anything beyond a minute is stale.
const flashMaxAge = 60

// Flash carries one user-facing message across exactly one redirect hop. The
// message travels in an HMAC-signed cookie set on the redirect response and
// cleared on the next read, so it is explicit per-response state rather than
// something ambient.
type Flash struct {
	key []byte
}

func NewFlash(key string) *Flash {
	return &Flash{key: []byte(key)}
}

// Set attaches the message to the outgoing response.
func (f *Flash) Set(w http.ResponseWriter, message string) {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    encoded + "." + f.sign(encoded),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Take returns the pending message, if any, and clears it so it can be read
// at most once. Tampered or malformed cookies read as absent.
func (f *Flash) Take(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return "", false
	}

	f.clear(w)

	encoded, signature, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return "", false
	}
	if !hmac.Equal([]byte(f.sign(encoded)), []byte(signature)) {
		return "", false
	}

	message, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}

	return string(message), true
}

func (f *Flash) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (f *Flash) sign(encoded string) string {
	mac := hmac.New(sha256.New, f.key)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
