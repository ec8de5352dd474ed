package service

import (
	"context"
	"strings"
	"time"

	"github.com/quantiva/dashboard/internal/core/domain"
	"github.com/quantiva/dashboard/internal/core/ports"
)

// DefaultVerifyLatency mirrors the simulated round trip of the identity call.
const DefaultVerifyLatency = time.Second

// LatencyVerifier accepts every credential after a fixed delay.
type LatencyVerifier struct {
	latency time.Duration
}

func NewLatencyVerifier(latency time.Duration) *LatencyVerifier {
	if latency < 0 {
		latency = 0
	}
	return &LatencyVerifier{latency: latency}
}

func (v *LatencyVerifier) Verify(ctx context.Context, _ ports.Credentials) error {
	if v.latency == 0 {
		return nil
	}

	timer := time.NewTimer(v.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DenyListVerifier rejects a fixed set of emails with ErrInvalidCredentials
// and delegates everything else.
type DenyListVerifier struct {
	next   ports.IdentityVerifier
	denied map[string]struct{}
}

func NewDenyListVerifier(next ports.IdentityVerifier, emails ...string) *DenyListVerifier {
	denied := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			denied[e] = struct{}{}
		}
	}
	return &DenyListVerifier{next: next, denied: denied}
}

func (v *DenyListVerifier) Verify(ctx context.Context, creds ports.Credentials) error {
	if err := v.next.Verify(ctx, creds); err != nil {
		return err
	}
	if _, ok := v.denied[normalizeEmail(creds.Email)]; ok {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
