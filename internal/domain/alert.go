package domain

import (
	"fmt"
	"time"
)

// SupervisorAlert records a floor-reported blocker: a job stuck in one
// department until an estimated resolution date. Active alerts count as
// blocked capacity until they resolve.
type SupervisorAlert struct {
	ID                  string
	JobID               string
	Department          Department
	Reason              string
	EstimatedResolution time.Time
	Status              AlertStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Active reports whether the alert still blocks capacity as of today.
func (a *SupervisorAlert) Active(today time.Time) bool {
	return a.Status == AlertActive && !a.EstimatedResolution.Before(today)
}

// Resolve closes the alert.
func (a *SupervisorAlert) Resolve(now time.Time) error {
	if a.Status == AlertResolved {
		return fmt.Errorf("alert %s is already resolved", a.ID)
	}
	a.Status = AlertResolved
	a.UpdatedAt = now
	return nil
}
