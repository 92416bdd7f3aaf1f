package gateway

import "github.com/golang-jwt/jwt/v5"

// TokenSubject returns the "sub" claim of a JWT bearer token without verifying it, for
// display of the signed-in principal. Opaque or malformed tokens yield "".
func TokenSubject(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
