package auth

import (
	"context"
	"fmt"

	firebaseAuth "firebase.google.com/go/v4/auth"
)

// FirebaseVerifier verifies Firebase ID tokens and checks for revocation.
type FirebaseVerifier struct {
	client *firebaseAuth.Client
}

func NewFirebaseVerifier(client *firebaseAuth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (f *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*VerifiedToken, error) {
	token, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	email, _ := token.Claims["email"].(string)
	return &VerifiedToken{UID: token.UID, Email: email}, nil
}
