package httpserver

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDClaim = "user_id"

// userID returns the id of the authenticated caller, or "" for anonymous
// requests. Private routes get the token from the jwt middleware; public
// routes accept an optional bearer token and parse it here, treating any
// invalid token as anonymous.
func (s *Server) userID(c echo.Context) string {
	if token, ok := c.Get("user").(*jwt.Token); ok {
		return claimUserID(token)
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claimUserID(token)
}

func claimUserID(token *jwt.Token) string {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	id, _ := claims[userIDClaim].(string)
	return id
}
