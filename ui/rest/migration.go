package rest

import (
	"github.com/gofiber/fiber/v2"

	domainCache "github.com/daeho-materials/daeho-web/domains/cache"
	"github.com/daeho-materials/daeho-web/domains/design"
	"github.com/daeho-materials/daeho-web/pkg/httpcache"
	"github.com/daeho-materials/daeho-web/pkg/utils"
)

type Migration struct {
	Service design.IMigrationUsecase
	Cache   domainCache.ICacheManager
}

func InitRestMigration(app fiber.Router, service design.IMigrationUsecase, cache domainCache.ICacheManager) Migration {
	rest := Migration{Service: service, Cache: cache}
	app.Get("/design/migrate", rest.Inspect)
	app.Post("/design/migrate", rest.Run)
	return rest
}

// Inspect is the read-only introspection surface: last migration metadata
// plus the retrievable backups.
func (controller *Migration) Inspect(c *fiber.Ctx) error {
	ctx := c.UserContext()

	meta, err := controller.Service.Metadata(ctx)
	utils.PanicIfNeeded(err)

	backups, err := controller.Service.ListBackups(ctx)
	utils.PanicIfNeeded(err)

	httpcache.ApplyNoStore(c)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch migration state",
		Results: fiber.Map{
			"current_schema_version": design.CurrentSchemaVersion,
			"metadata":               meta,
			"backups":                backups,
		},
	})
}

func (controller *Migration) Run(c *fiber.Ctx) error {
	var request design.MigrateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	ctx := c.UserContext()

	var result design.MigrationResult
	switch request.Action {
	case "migrate", "":
		result, err = controller.Service.Migrate(ctx, request.Author)
	case "restore":
		if request.BackupID == "" {
			return c.Status(400).JSON(utils.ResponseData{
				Status:  400,
				Code:    "BAD_REQUEST",
				Message: "backup_id is required for restore",
			})
		}
		result, err = controller.Service.RestoreFromBackup(ctx, request.BackupID, request.Author)
	default:
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "action must be \"migrate\" or \"restore\"",
		})
	}
	utils.PanicIfNeeded(err)

	// The document may have changed shape; cached copies are now stale.
	if result.Success {
		controller.Cache.InvalidateDesignCaches(ctx)
		controller.Cache.IncrementVersion(ctx, domainCache.VersionKeyDesign)
	}

	status := 200
	code := "SUCCESS"
	if !result.Success {
		status = 409
		code = "MIGRATION_FAILED"
	}

	httpcache.ApplyNoStore(c)
	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    code,
		Message: result.Message,
		Results: result,
	})
}
