package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Porx312/ProjectD/identity"
)

// SubjectKey is the echo.Context key holding the verified caller subject.
const SubjectKey = "subject"

// Claims extends jwt.RegisteredClaims with the profile fields the identity
// provider puts in its tokens. The subject is the external user id.
type Claims struct {
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the claims to the caller identity.
func (c *Claims) Identity() identity.Identity {
	return identity.Identity{Subject: c.Subject, Name: c.Name, Nickname: c.Nickname}
}

// IssueToken signs an identity token valid for ttl.
func IssueToken(key []byte, id identity.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:     id.Name,
		Nickname: id.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken verifies a token and returns its claims.
func ParseToken(key []byte, token string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Identity returns an Echo middleware that resolves the caller identity from
// the Authorization header. Requests without the header continue anonymously;
// operations decide whether an identity is required. A header carrying an
// invalid token is rejected.
func Identity(key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			if token == "" {
				return next(c)
			}
			if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
				token = strings.TrimSpace(token[7:])
			}

			claims, err := ParseToken(key, token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token signature")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			id := claims.Identity()
			req := c.Request()
			c.SetRequest(req.WithContext(identity.NewContext(req.Context(), id)))
			c.Set(SubjectKey, id.Subject)
			return next(c)
		}
	}
}
