package entity

import "fmt"

// Session is an authenticated venue API session: the application's API key
// paired with the access token issued for today's trading session. It is an
// explicit value passed into adapters, never process-global state.
type Session struct {
	APIKey      string
	AccessToken string
}

// NewSession creates a validated Session.
func NewSession(apiKey, accessToken string) (*Session, error) {
	s := &Session{APIKey: apiKey, AccessToken: accessToken}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) validate() error {
	if s.APIKey == "" {
		return fmt.Errorf("apiKey must not be empty")
	}
	if s.AccessToken == "" {
		return fmt.Errorf("accessToken must not be empty")
	}
	return nil
}

// Authorization returns the venue Authorization header value.
func (s *Session) Authorization() string {
	return fmt.Sprintf("token %s:%s", s.APIKey, s.AccessToken)
}
