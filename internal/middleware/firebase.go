package middleware

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthenticator verifies Firebase ID tokens and session cookies.
type FirebaseAuthenticator struct {
	client *fbauth.Client
}

func NewFirebaseAuthenticator(ctx context.Context, app *firebase.App) (*FirebaseAuthenticator, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseAuthenticator{client: client}, nil
}

func (a *FirebaseAuthenticator) Authenticate(ctx context.Context, cred Credential) (Identity, error) {
	if cred.Token == "" {
		return Identity{}, ErrNoCredential
	}
	if a.client == nil {
		return Identity{}, errors.New("firebase auth client not configured")
	}

	var (
		token *fbauth.Token
		err   error
	)
	if cred.FromCookie {
		token, err = a.client.VerifySessionCookie(ctx, cred.Token)
	} else {
		token, err = a.client.VerifyIDToken(ctx, cred.Token)
	}
	if err != nil {
		return Identity{}, err
	}

	email, _ := token.Claims["email"].(string)
	return Identity{UID: token.UID, Email: email}, nil
}
