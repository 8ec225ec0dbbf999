//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"gotube/internal/config"
)

func InitializeApplication(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		InfraSet,
		RepositorySet,
		ServiceSet,
		HandlerSet,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
