package keyapi

import (
	"context"
	"net/http"

	"github.com/artsapp/builder/pkg/constants"
)

// WithUpstreamCookies attaches the key API session cookies of the incoming
// request to ctx so that calls run on the user's behalf.
func WithUpstreamCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, constants.ContextKeyUpstreamCookies, cookies)
}

// UpstreamCookies returns the cookies attached with WithUpstreamCookies
func UpstreamCookies(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(constants.ContextKeyUpstreamCookies).([]*http.Cookie)
	return cookies
}
