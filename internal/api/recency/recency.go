// Package recency encodes the user's last-searched city into the recent_city
// cookie and decodes it back. The token is a plain reversible encoding with no
// key and no integrity check; anyone holding it can recover the city name.
package recency

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// CookieName is the cookie carrying the encoded last-searched city.
const CookieName = "recent_city"

// Encode turns a city name into a cookie-safe token.
func Encode(city string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(city))
}

// Decode recovers the city name from a token. Decode(Encode(x)) == x for any
// city string; malformed tokens return an error, never panic.
func Decode(token string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("malformed recent-city token: %w", err)
	}
	return string(b), nil
}

// FromRequest reads the recent-city cookie from an inbound request. A missing
// or malformed cookie is treated identically: no recent city.
func FromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	city, err := Decode(c.Value)
	if err != nil {
		return ""
	}
	return city
}

// SetCookie writes the outbound recent-city cookie for a resolved city.
func SetCookie(w http.ResponseWriter, city string) {
	http.SetCookie(w, &http.Cookie{
		Name:  CookieName,
		Value: Encode(city),
		Path:  "/",
	})
}
