package widgetcfg

import (
	"context"

	"NovaChat/entity"
)

type Core interface {
	GetGlobalConfig(ctx context.Context) (*entity.WidgetConfig, error)
	GetConfig(ctx context.Context, tenantID string) (*entity.WidgetConfig, error)
	GetConfigByOrigin(ctx context.Context, origin string) (*entity.WidgetConfig, error)
	SaveConfig(ctx context.Context, conf entity.WidgetConfig) error
}
