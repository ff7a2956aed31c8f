package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/oerror"
)

// usernameClaim is the claim of an auth token holding the name the player is announced as.
const usernameClaim = "usr"

// inspectToken reads the claims of an auth token without verifying its signature. It fails if the
// token is malformed or expired at now, and returns the username claimed by the token, if any.
func inspectToken(token string, now time.Time) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", oerror.Wrap(oerror.KindConnection, err, "malformed auth token")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return "", oerror.Wrap(oerror.KindConnection, err, "malformed auth token")
	}
	if exp != nil && !exp.After(now) {
		return "", oerror.Newk(oerror.KindConnection, game.ErrorTokenExpired, exp.Time)
	}
	username, _ := claims[usernameClaim].(string)
	return username, nil
}
