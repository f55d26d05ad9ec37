package httpserver

import (
	"net/http"

	"moviecatalog/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

func (s *Server) healthCheck(c echo.Context) error {
	if s.DB != nil {
		db, err := s.DB.DB()
		if err != nil {
			return errs.Errorf(errs.EINTERNAL, "database unavailable")
		}
		if err := db.PingContext(c.Request().Context()); err != nil {
			return errs.Errorf(errs.EINTERNAL, "database unavailable")
		}
	}

	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "OK",
	})
}
