package auth

import "github.com/dgrijalva/jwt-go"

var CheckClaims = checkClaims
var StandardClaims = &jwt.StandardClaims{}
