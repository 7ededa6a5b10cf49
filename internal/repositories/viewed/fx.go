package viewed

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	fx.Annotate(
		func(pool *pgxpool.Pool) *Pgx { return NewPgx(pool) },
		fx.As(new(Repository)),
	),
)
