package rest

import (
	"encoding/json"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"

	domainCache "github.com/daeho-materials/daeho-web/domains/cache"
	"github.com/daeho-materials/daeho-web/domains/design"
	"github.com/daeho-materials/daeho-web/pkg/httpcache"
	"github.com/daeho-materials/daeho-web/pkg/utils"
)

type Cache struct {
	Manager domainCache.ICacheManager
}

func InitRestCache(app fiber.Router, manager domainCache.ICacheManager) Cache {
	rest := Cache{Manager: manager}
	app.Get("/cache/stats", rest.Stats)
	app.Post("/cache/invalidate", rest.Invalidate)
	return rest
}

// Stats is a read-only snapshot of the design cache family for the admin
// panel's diagnostics view.
func (controller *Cache) Stats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	stats := domainCache.Stats{
		DesignVersion: controller.Manager.GetVersion(ctx, domainCache.VersionKeyDesign),
	}

	var settings design.Settings
	if controller.Manager.Get(ctx, domainCache.KeySettings, &settings) {
		stats.SettingsCached = true
		stats.SettingsUpdated = humanize.Time(settings.LastUpdated)
		if data, err := json.Marshal(settings); err == nil {
			stats.SettingsSize = humanize.Bytes(uint64(len(data)))
		}
	}

	var history design.HistoryPage
	stats.HistoryCached = controller.Manager.Get(ctx, domainCache.KeyHistory, &history)

	var fonts json.RawMessage
	stats.FontListCached = controller.Manager.Get(ctx, domainCache.KeyFontList, &fonts)

	httpcache.ApplyNoStore(c)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch cache stats",
		Results: stats,
	})
}

// Invalidate manually drops the design cache family; useful after a CDN
// purge or when debugging staleness reports.
func (controller *Cache) Invalidate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	controller.Manager.InvalidateDesignCaches(ctx)
	version := controller.Manager.IncrementVersion(ctx, domainCache.VersionKeyDesign)

	httpcache.ApplyNoStore(c)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success invalidate design caches",
		Results: fiber.Map{
			"cache_version": version,
		},
	})
}
