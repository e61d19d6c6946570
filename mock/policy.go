package mock

import (
	"context"

	"github.com/fwojciec/sitetext"
)

// Compile-time interface verification.
var (
	_ sitetext.PolicyGate    = (*PolicyGate)(nil)
	_ sitetext.RobotsService = (*RobotsService)(nil)
)

// PolicyGate is a mock implementation of sitetext.PolicyGate.
type PolicyGate struct {
	AllowedFn func(rawURL string) bool
}

func (g *PolicyGate) Allowed(rawURL string) bool {
	return g.AllowedFn(rawURL)
}

// RobotsService is a mock implementation of sitetext.RobotsService.
type RobotsService struct {
	LoadRobotsFn func(ctx context.Context, originURL string) (*sitetext.Robots, error)
}

func (s *RobotsService) LoadRobots(ctx context.Context, originURL string) (*sitetext.Robots, error) {
	return s.LoadRobotsFn(ctx, originURL)
}
