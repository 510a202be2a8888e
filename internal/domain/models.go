package domain

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims. The authenticated username is carried in
// the registered Subject claim.
type Claims struct {
	jwt.RegisteredClaims
}
