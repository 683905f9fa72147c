package browser

import (
	"github.com/go-rod/rod/lib/proto"

	"github.com/iksnae/youmind-session/internal"
)

// ToCookieParams converts saved cookies into CDP cookie parameters
func ToCookieParams(cookies []internal.StoredCookie) []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  proto.TimeSinceEpoch(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		})
	}
	return params
}

// FromCookies converts browser cookies into their saved form. Session
// cookies keep a zero expiry.
func FromCookies(cookies []*proto.NetworkCookie) []internal.StoredCookie {
	stored := make([]internal.StoredCookie, 0, len(cookies))
	for _, c := range cookies {
		if c == nil {
			continue
		}
		expires := float64(c.Expires)
		if c.Session || expires < 0 {
			expires = 0
		}
		stored = append(stored, internal.StoredCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return stored
}
