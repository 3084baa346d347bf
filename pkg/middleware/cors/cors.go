package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	baseHeaders   = []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"}
	allowMethods  = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}, ", ")
	exposeHeaders = "Content-Disposition, X-Request-ID"
)

type policy struct {
	origins      map[string]struct{}
	allowHeaders string
}

// New answers CORS for the listed origins, or for any origin when the list is
// empty. extraHeaders are accepted in addition to the defaults, e.g. the cron
// secret header. Preflight requests end here with 204.
func New(allowedOrigins []string, extraHeaders ...string) gin.HandlerFunc {
	p := policy{
		origins:      make(map[string]struct{}, len(allowedOrigins)),
		allowHeaders: strings.Join(append(append([]string{}, baseHeaders...), extraHeaders...), ", "),
	}
	for _, origin := range allowedOrigins {
		p.origins[normalize(origin)] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")
		if allow := p.allowOrigin(c.GetHeader("Origin")); allow != "" {
			h.Set("Access-Control-Allow-Origin", allow)
			if allow != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}
		h.Set("Access-Control-Allow-Headers", p.allowHeaders)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Expose-Headers", exposeHeaders)
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// allowOrigin returns the Access-Control-Allow-Origin value, or "" to omit it.
func (p policy) allowOrigin(origin string) string {
	open := len(p.origins) == 0
	switch {
	case origin == "" && open:
		return "*"
	case origin == "":
		return ""
	case open:
		return origin
	}
	if _, ok := p.origins[normalize(origin)]; ok {
		return origin
	}
	return ""
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
