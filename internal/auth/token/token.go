// Package token issues and verifies the bearer tokens accepted by the API.
package token

import (
	"context"
	"errors"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
)

// Verifier turns a raw bearer token into the identity it was issued for.
type Verifier interface {
	Verify(ctx context.Context, raw string) (domain.Identity, error)
}

// Chain tries each verifier in order and accepts the first success.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	var errs []error
	for _, v := range c {
		if v == nil {
			continue
		}
		id, err := v.Verify(ctx, raw)
		if err == nil {
			return id, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{}, errors.Join(append([]error{domain.ErrInvalidToken}, errs...)...)
}
