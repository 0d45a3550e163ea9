package handlers

import (
	"net"
	"net/http"

	"github.com/xavierca1/jetleads/internal/entity"
	"github.com/xavierca1/jetleads/internal/ratelimit"
	"github.com/xavierca1/jetleads/internal/usecase"
)

// requestContext expects chi's RealIP middleware to have resolved
// X-Forwarded-For / X-Real-IP into RemoteAddr.
func requestContext(r *http.Request) usecase.RequestContext {
	ip := clientIP(r)
	key := ip
	if key == "" {
		key = ratelimit.UnknownKey
	}

	q := r.URL.Query()
	return usecase.RequestContext{
		ClientKey: key,
		IPAddress: ip,
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
		UTM: entity.UTM{
			Source:   q.Get("utm_source"),
			Medium:   q.Get("utm_medium"),
			Campaign: q.Get("utm_campaign"),
			Term:     q.Get("utm_term"),
			Content:  q.Get("utm_content"),
		},
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
