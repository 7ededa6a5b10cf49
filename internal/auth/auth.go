// Package auth supplies the session token used by every backend call.
package auth

import (
	"github.com/craftfolio/story-engine/pkg/config"
	"github.com/craftfolio/story-engine/pkg/errors"
	"go.uber.org/fx"
)

// TokenSource hands out the current session token. Token returns ErrAuth
// when no token is available, so callers short-circuit before any network
// call.
type TokenSource interface {
	Token() (string, error)
}

type ConfigSource struct {
	cfg *config.Config
}

func NewConfigSource(cfg *config.Config) *ConfigSource {
	return &ConfigSource{cfg: cfg}
}

func (s *ConfigSource) Token() (string, error) {
	if s.cfg.Auth.Token == "" {
		return "", errors.Wrap(errors.ErrAuth, "no session token configured")
	}
	return s.cfg.Auth.Token, nil
}

var _ TokenSource = (*ConfigSource)(nil)

var Module = fx.Provide(
	fx.Annotate(
		NewConfigSource,
		fx.As(new(TokenSource)),
	),
)
