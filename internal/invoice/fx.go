package invoice

import (
	"github.com/storelane/merchant/internal/invoice/repository"
	"github.com/storelane/merchant/internal/lineitem"
	"github.com/storelane/merchant/internal/order"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.repository",
	lineitem.Module,
	order.Module,
	fx.Provide(repository.ProvideCache),
	fx.Provide(repository.Provide),
)
