package middleware

import (
	"context"
	"errors"
	"strings"
)

// DevAuthenticator trusts tokens of the form "dev:<email>". Local use only.
type DevAuthenticator struct{}

func (DevAuthenticator) Authenticate(_ context.Context, cred Credential) (Identity, error) {
	email, ok := strings.CutPrefix(cred.Token, "dev:")
	if !ok || strings.TrimSpace(email) == "" {
		return Identity{}, errors.New("invalid dev token")
	}
	return Identity{UID: "dev:" + email, Email: email}, nil
}
