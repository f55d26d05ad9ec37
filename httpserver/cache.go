package httpserver

import (
	"bytes"
	"net/http"

	"moviecatalog/pkg/cache"

	"github.com/labstack/echo/v4"
)

const movieCacheTag = "movies"

// cached replays stored responses for GET requests and records fresh 200
// responses under the given tags. The key includes the caller's user id so
// per-user rating enrichment never leaks between users.
func (s *Server) cached(tags ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.Cache == nil || c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := cacheKey(c, s.userID(c))
			if entry, ok := s.Cache.Get(key); ok {
				return c.Blob(entry.Status, entry.ContentType, entry.Body)
			}

			recorder := &bodyRecorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = recorder

			if err := next(c); err != nil {
				return err
			}

			if recorder.status == http.StatusOK {
				s.Cache.Set(key, cache.Entry{
					Status:      recorder.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        recorder.body.Bytes(),
				}, tags...)
			}
			return nil
		}
	}
}

func cacheKey(c echo.Context, userID string) string {
	req := c.Request()
	return req.URL.Path + "?" + req.URL.RawQuery + "|" + userID
}

// bodyRecorder tees the response body so it can be cached after the handler
// has written it to the client.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *bodyRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
