package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/dataset"
)

// ChallengeResult is what createChallenge hands back to the caller, who
// passes the code to the mail collaborator.
type ChallengeResult struct {
	ChallengeID string
	Code        string
	ExpiresAt   time.Time
}

// VerifiedChallenge carries the profile values captured at request time.
type VerifiedChallenge struct {
	DisplayName string
	Timezone    string
}

// AuthService issues and verifies short-lived one-time sign-in codes.
type AuthService struct {
	store   dataset.Store
	codeTTL time.Duration
}

func NewAuthService(store dataset.Store, codeTTL time.Duration) *AuthService {
	return &AuthService{store: store, codeTTL: codeTTL}
}

// NormalizeEmail is the canonical form used as the login key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCode returns a uniform random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// CreateChallenge stores a fresh code for the email, superseding any
// unexpired challenge for the same address so only the newest code
// verifies.
func (s *AuthService) CreateChallenge(ctx context.Context, email, displayName, timezone string) (*ChallengeResult, error) {
	email = NormalizeEmail(email)
	now := time.Now().UTC()
	expiresAt := now.Add(s.codeTTL)

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("error generating code: %w", err)
	}
	challengeID := uuid.NewString()

	err = s.store.Update(ctx, func(d *models.Dataset) error {
		kept := d.AuthChallenges[:0]
		for _, c := range d.AuthChallenges {
			if c.Email == email && !c.Expired(now) {
				continue
			}
			kept = append(kept, c)
		}
		d.AuthChallenges = append(kept, models.AuthChallenge{
			ID:          challengeID,
			Email:       email,
			Code:        code,
			DisplayName: strings.TrimSpace(displayName),
			Timezone:    strings.TrimSpace(timezone),
			CreatedAt:   now,
			ExpiresAt:   expiresAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ChallengeResult{ChallengeID: challengeID, Code: code, ExpiresAt: expiresAt}, nil
}

// VerifyChallenge consumes the (email, code) pair. Expired challenges are
// garbage-collected on every call, and a matched code is removed whether
// or not the caller goes on to sign in, making codes single-use. Wrong,
// expired and never-issued codes are indistinguishable to the caller.
func (s *AuthService) VerifyChallenge(ctx context.Context, email, code string) (*VerifiedChallenge, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)
	now := time.Now().UTC()

	var matched *models.AuthChallenge

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		kept := d.AuthChallenges[:0]
		for _, c := range d.AuthChallenges {
			if c.Email == email && c.Code == code {
				if !c.Expired(now) {
					m := c
					matched = &m
				}
				continue
			}
			if c.Expired(now) {
				continue
			}
			kept = append(kept, c)
		}
		d.AuthChallenges = kept
		return nil
	})
	if err != nil {
		return nil, err
	}

	if matched == nil {
		return nil, common.NewUnauthorizedError("Invalid or expired code")
	}

	return &VerifiedChallenge{DisplayName: matched.DisplayName, Timezone: matched.Timezone}, nil
}
