package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/product_radar/app/display/internal/biz"
	"github.com/iWorld-y/product_radar/app/display/internal/service"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/engine"
)

// ProviderSet 是展示服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewRadarEngine,

	// UseCase providers
	wire.Bind(new(biz.Pipeline), new(*engine.Engine)),
	biz.NewResearchUseCase,

	// Service providers
	service.NewResearchService,
)
