package fx

import (
	"github.com/craftfolio/story-engine/internal/repositories/viewed"
	"go.uber.org/fx"
)

var Module = fx.Options(
	viewed.Module,
)
