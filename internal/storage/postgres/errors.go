package postgres

import (
	"fmt"

	"newsroom/internal/domain"
)

// remote classifies a driver failure as the remote-collaborator error kind
// while keeping the underlying cause in the chain.
func remote(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRemote, err)
}
