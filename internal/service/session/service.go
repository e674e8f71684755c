package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session")

// Service issues anonymous shopper session ids. A session id scopes the
// shopper's stored cart; it carries no identity.
type Service struct {
	ttl time.Duration
}

func New() *Service {
	return &Service{ttl: 30 * 24 * time.Hour}
}

// Issue returns a fresh session id.
func (s *Service) Issue() string {
	return uuid.NewString()
}

// Validate normalises id and rejects anything that is not a uuid.
func (s *Service) Validate(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidSession
	}
	return parsed.String(), nil
}

// TTLSeconds is the cookie lifetime.
func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
