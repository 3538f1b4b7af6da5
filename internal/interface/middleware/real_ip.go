package middleware

import (
	"github.com/gin-gonic/gin"
)

const CtxRealIPKey = "real_ip"

// ClientIPHeaders are consulted in order, and only when the direct peer is a
// trusted proxy. X-Forwarded-For yields its right-most untrusted hop.
var ClientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// TrustProxies makes r honour ClientIPHeaders from the given proxy CIDRs or
// addresses only. An empty list trusts no proxy, so the socket address wins.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = ClientIPHeaders
	if err := r.SetTrustedProxies(proxies); err != nil {
		_ = r.SetTrustedProxies(nil)
		return err
	}
	return nil
}

// RealIP stores the caller's address under CtxRealIPKey for rate limiting and
// logging.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, c.ClientIP())
		c.Next()
	}
}
