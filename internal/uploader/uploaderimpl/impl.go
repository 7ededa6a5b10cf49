package uploaderimpl

import (
	"net/http"

	"github.com/craftfolio/story-engine/internal/auth"
	"github.com/craftfolio/story-engine/internal/uploader"
	"github.com/craftfolio/story-engine/pkg/config"
	"github.com/craftfolio/story-engine/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Tokens auth.TokenSource
}

type UploaderImpl struct {
	HTTP   *http.Client
	Logger logger.Logger
	Config *config.Config
	Tokens auth.TokenSource
}

func New(opts Opts) *UploaderImpl {
	return &UploaderImpl{
		HTTP:   &http.Client{Timeout: opts.Config.Api.UploadTimeout},
		Logger: opts.Logger,
		Config: opts.Config,
		Tokens: opts.Tokens,
	}
}

var _ uploader.Client = (*UploaderImpl)(nil)
