package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/config"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/token"
)

// BuildTokens returns the JWT issuer and the verifier chain. Firebase ID
// tokens are accepted only when credentials are configured. Without a
// JWT_SECRET (allowed outside production) a random secret is generated, so
// tokens do not survive a restart.
func BuildTokens(ctx context.Context, cfg *config.AuthConfig, serviceName string, log *zap.Logger) (*token.JWT, token.Verifier, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		secret = hex.EncodeToString(b)
		log.Warn("JWT_SECRET not set, using an ephemeral secret")
	}

	jwt, err := token.NewJWT(secret, cfg.TokenTTL, serviceName)
	if err != nil {
		return nil, nil, err
	}
	chain := token.Chain{jwt}

	if cfg.FirebaseCredentialsPath != "" {
		client, err := token.InitializeFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, token.NewFirebase(client))
		log.Info("firebase id tokens enabled")
	}

	return jwt, chain, nil
}
