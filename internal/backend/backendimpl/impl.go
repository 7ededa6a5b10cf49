package backendimpl

import (
	"net/http"
	"time"

	"github.com/craftfolio/story-engine/internal/auth"
	"github.com/craftfolio/story-engine/internal/backend"
	"github.com/craftfolio/story-engine/pkg/config"
	"github.com/craftfolio/story-engine/pkg/logger"
	"go.uber.org/fx"
)

const requestTimeout = 30 * time.Second

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Tokens auth.TokenSource
}

type BackendImpl struct {
	HTTP   *http.Client
	Logger logger.Logger
	Config *config.Config
	Tokens auth.TokenSource
}

func New(opts Opts) *BackendImpl {
	return &BackendImpl{
		HTTP:   &http.Client{Timeout: requestTimeout},
		Logger: opts.Logger,
		Config: opts.Config,
		Tokens: opts.Tokens,
	}
}

var _ backend.Client = (*BackendImpl)(nil)
