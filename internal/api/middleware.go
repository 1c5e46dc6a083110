package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const defaultRealm = "newsroom"

// AuthConfig configures BasicAuth. Realm defaults to "newsroom"; a nil Exempt
// leaves only /health open for health checks.
type AuthConfig struct {
	User   string
	Pass   string
	Realm  string
	Exempt []string
}

// BasicAuth guards every route except the exempt paths with a single
// user/password pair. Credentials are compared in constant time.
func BasicAuth(cfg AuthConfig) gin.HandlerFunc {
	realm := cfg.Realm
	if realm == "" {
		realm = defaultRealm
	}
	exempt := cfg.Exempt
	if exempt == nil {
		exempt = []string{"/health"}
	}
	challenge := `Basic realm="` + realm + `"`
	user, pass := []byte(cfg.User), []byte(cfg.Pass)

	return func(c *gin.Context) {
		if lo.Contains(exempt, c.Request.URL.Path) {
			c.Next()
			return
		}

		u, p, ok := c.Request.BasicAuth()
		// 用户名和密码都要比较，避免提前返回泄露哪一项错误
		userOK := subtle.ConstantTimeCompare([]byte(u), user)
		passOK := subtle.ConstantTimeCompare([]byte(p), pass)
		if !ok || userOK&passOK != 1 {
			c.Header("WWW-Authenticate", challenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "authentication required",
			})
			return
		}
		c.Next()
	}
}
