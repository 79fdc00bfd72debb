package orchestrator

import (
	"fmt"
	"os"
	"os/user"

	domain "github.com/thdelmas/Rooster/internal/domain/alarm"
)

// DetectActor gathers host and user information for the audit trail kept
// alongside the persisted armed flag.
func DetectActor() (*domain.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &domain.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
