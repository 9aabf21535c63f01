package rest

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	domainCache "github.com/daeho-materials/daeho-web/domains/cache"
	"github.com/daeho-materials/daeho-web/domains/design"
	"github.com/daeho-materials/daeho-web/pkg/httpcache"
	"github.com/daeho-materials/daeho-web/pkg/utils"
)

const settingsCacheTTLSeconds = 60

type Design struct {
	Service design.IDesignUsecase
	History design.IHistoryUsecase
	Cache   domainCache.ICacheManager
}

func InitRestDesign(app fiber.Router, service design.IDesignUsecase, history design.IHistoryUsecase, cache domainCache.ICacheManager) Design {
	rest := Design{Service: service, History: history, Cache: cache}
	app.Get("/design/settings", rest.GetSettings)
	app.Put("/design/settings", rest.SaveSettings)
	app.Get("/design/history", rest.ListHistory)
	app.Post("/design/history/rollback", rest.Rollback)
	app.Post("/design/export", rest.Export)
	app.Post("/design/import", rest.Import)
	return rest
}

// GetSettings serves the canonical document through the cache, honoring
// If-Modified-Since so unchanged admin panels get a body-less 304.
func (controller *Design) GetSettings(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var settings design.Settings
	if !controller.Cache.Get(ctx, domainCache.KeySettings, &settings) {
		loaded, err := controller.Service.LoadSettings(ctx)
		utils.PanicIfNeeded(err)
		settings = loaded
		controller.Cache.Set(ctx, domainCache.KeySettings, settings, settingsCacheTTLSeconds)
	}

	if httpcache.IsCacheFresh(settings.LastUpdated, c.Get(fiber.HeaderIfModifiedSince)) {
		return httpcache.NotModified(c, httpcache.ClassSettings, settings.LastUpdated)
	}

	httpcache.Apply(c, httpcache.ClassSettings)
	httpcache.SetLastModified(c, settings.LastUpdated)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch design settings",
		Results: fiber.Map{
			"settings":      settings,
			"cache_version": controller.Cache.GetVersion(ctx, domainCache.VersionKeyDesign),
		},
	})
}

func (controller *Design) SaveSettings(c *fiber.Ctx) error {
	var request design.SaveRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	ctx := c.UserContext()
	saved, err := controller.Service.SaveSettings(ctx, request.Settings, request.Author, request.Description)
	utils.PanicIfNeeded(err)

	version := controller.invalidateAndReprime(c, saved)

	httpcache.ApplyNoStore(c)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success save design settings",
		Results: fiber.Map{
			"settings":      saved,
			"cache_version": version,
		},
	})
}

func (controller *Design) ListHistory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	limit := c.QueryInt("limit", design.DefaultHistoryPageSize)
	offset := c.QueryInt("offset", 0)

	// Only the default window is cached; it is the one the admin panel
	// polls and the one InvalidateDesignCaches knows how to drop.
	defaultWindow := limit == design.DefaultHistoryPageSize && offset == 0

	var page design.HistoryPage
	if !defaultWindow || !controller.Cache.Get(ctx, domainCache.KeyHistory, &page) {
		loaded, err := controller.History.List(ctx, limit, offset)
		utils.PanicIfNeeded(err)
		page = loaded
		if defaultWindow {
			controller.Cache.Set(ctx, domainCache.KeyHistory, page, 300)
		}
	}

	httpcache.Apply(c, httpcache.ClassHistory)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch design history",
		Results: page,
	})
}

func (controller *Design) Rollback(c *fiber.Ctx) error {
	var request design.RollbackRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	if request.EntryID == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "entry_id is required",
		})
	}

	ctx := c.UserContext()
	settings, err := controller.History.Rollback(ctx, request.EntryID, request.Author)
	utils.PanicIfNeeded(err)

	version := controller.invalidateAndReprime(c, settings)

	httpcache.ApplyNoStore(c)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success rollback design settings",
		Results: fiber.Map{
			"settings":      settings,
			"cache_version": version,
		},
	})
}

// Export streams the canonical document as a downloadable JSON file. Never
// cached so the download always reflects current truth.
func (controller *Design) Export(c *fiber.Ctx) error {
	payload, err := controller.Service.ExportSettings(c.UserContext())
	utils.PanicIfNeeded(err)

	filename := fmt.Sprintf("design-settings-%s.json", time.Now().UTC().Format("20060102-150405"))

	httpcache.ApplyNoStore(c)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(payload)
}

func (controller *Design) Import(c *fiber.Ctx) error {
	var request design.ImportRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	ctx := c.UserContext()
	imported, err := controller.Service.ImportSettings(ctx, request.SettingsJSON, request.Author)
	utils.PanicIfNeeded(err)

	version := controller.invalidateAndReprime(c, imported)

	httpcache.ApplyNoStore(c)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success import design settings",
		Results: fiber.Map{
			"settings":      imported,
			"cache_version": version,
		},
	})
}

// invalidateAndReprime is run after every successful mutation: drop the
// design cache family, bump the version counter so stale copies are
// detectable before TTL expiry, then re-prime the settings cache.
func (controller *Design) invalidateAndReprime(c *fiber.Ctx, settings design.Settings) int64 {
	ctx := c.UserContext()
	controller.Cache.InvalidateDesignCaches(ctx)
	version := controller.Cache.IncrementVersion(ctx, domainCache.VersionKeyDesign)
	controller.Cache.Set(ctx, domainCache.KeySettings, settings, settingsCacheTTLSeconds)
	return version
}
