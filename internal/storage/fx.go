package storage

import (
	"context"

	"go.uber.org/fx"
)

// Module wires object storage. The bucket is created on startup.
var Module = fx.Module("storage",
	fx.Provide(
		NewMinio,
		func(s *MinioStore) Store { return s },
	),
	fx.Invoke(func(lc fx.Lifecycle, s *MinioStore) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return s.EnsureBucket(ctx)
			},
		})
	}),
)
