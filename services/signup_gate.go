// File: services/signup_gate.go
package services

import (
	"context"
	"fmt"
	"time"

	"go-gym-classes/logger"
	"go-gym-classes/models"
)

// SignupGate decides when the signup affordance is shown and performs the
// signup write. Visibility depends on time only; authentication is checked
// when the action runs.
type SignupGate struct {
	// CutoffOffset moves the cutoff earlier than the class start.
	CutoffOffset time.Duration

	service ClassListingService
}

// NewSignupGate creates a gate that writes signups through svc.
func NewSignupGate(svc ClassListingService, cutoffOffset time.Duration) *SignupGate {
	return &SignupGate{CutoffOffset: cutoffOffset, service: svc}
}

// Cutoff is the last instant at which signup for a class starting at classStart is allowed.
func (g *SignupGate) Cutoff(classStart time.Time) time.Time {
	return classStart.Add(-g.CutoffOffset)
}

// CanSignUp reports whether the signup affordance is visible at now.
func (g *SignupGate) CanSignUp(classStart, now time.Time) bool {
	return !now.After(g.Cutoff(classStart))
}

// SignUp registers user for classID with a single write and no retry.
// It returns ErrUnauthenticated without calling the collaborator when the user
// has no token, and wraps any collaborator failure in ErrSignupFailed.
func (g *SignupGate) SignUp(ctx context.Context, classID string, user models.CurrentUser) error {
	if user.Token == "" {
		logger.Info.Printf("[SignupGate.SignUp] Anonymous signup attempt for class %s", classID)
		return ErrUnauthenticated
	}

	if err := g.service.SignUp(ctx, classID, user.Token); err != nil {
		logger.Warn.Printf("[SignupGate.SignUp] Signup for class %s by user %s failed: %v", classID, user.ID, err)
		return fmt.Errorf("%w: %w", ErrSignupFailed, err)
	}

	logger.Info.Printf("[SignupGate.SignUp] User %s signed up for class %s", user.ID, classID)
	return nil
}
