package token

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
)

// IDTokenVerifier is the part of the Firebase auth client the API uses.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Firebase accepts Firebase ID tokens. They carry no local user id, so the
// identity is the email claim and the caller resolves it to a user. Only
// provider-verified emails count: Firebase issues tokens for unverified
// addresses, and those must not map onto an existing account.
type Firebase struct {
	client IDTokenVerifier
}

func NewFirebase(client IDTokenVerifier) *Firebase {
	return &Firebase{client: client}
}

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client
func InitializeFirebase(ctx context.Context, credentialsPath string) (*auth.Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

func (f *Firebase) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	decoded, err := f.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	email, _ := decoded.Claims["email"].(string)
	if email == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if verified, _ := decoded.Claims["email_verified"].(bool); !verified {
		return domain.Identity{}, fmt.Errorf("%w: email not verified for uid %s", domain.ErrInvalidToken, decoded.UID)
	}
	return domain.Identity{Email: domain.NormalizeEmail(email)}, nil
}
