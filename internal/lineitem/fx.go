package lineitem

import (
	"github.com/storelane/merchant/internal/lineitem/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("lineitem.repository",
	fx.Provide(repository.Provide),
)
