package cmd

import (
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	coreconfig "github.com/daeho-materials/daeho-web/core/config"
	coreDB "github.com/daeho-materials/daeho-web/core/database"
	domainCache "github.com/daeho-materials/daeho-web/domains/cache"
	"github.com/daeho-materials/daeho-web/domains/contact"
	"github.com/daeho-materials/daeho-web/domains/design"
	"github.com/daeho-materials/daeho-web/domains/font"
	"github.com/daeho-materials/daeho-web/infrastructure/mailer"
	"github.com/daeho-materials/daeho-web/infrastructure/valkey"
	pkgError "github.com/daeho-materials/daeho-web/pkg/error"
	"github.com/daeho-materials/daeho-web/pkg/utils"
	"github.com/daeho-materials/daeho-web/repository"
	uiRest "github.com/daeho-materials/daeho-web/ui/rest"
	"github.com/daeho-materials/daeho-web/ui/rest/middleware"
	"github.com/daeho-materials/daeho-web/usecase"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the site API over HTTP",
	Run:   restServer,
}

func init() {
	restCmd.Flags().String("basic-auth", "", "Admin basic auth (format: user:pass,user2:pass2)")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) {
	cfg := coreconfig.Global

	if baFlag, _ := cmd.Flags().GetString("basic-auth"); baFlag != "" {
		cfg.App.BasicAuth = strings.Split(baFlag, ",")
	}

	fiberConfig := fiber.Config{
		EnableTrustedProxyCheck: true,
		Network:                 "tcp",
		AppName:                 "Daeho Web Engine",
		ServerHeader:            "Hidden",
	}
	if len(cfg.App.TrustedProxies) > 0 {
		fiberConfig.TrustedProxies = cfg.App.TrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedHost
	}

	app := fiber.New(fiberConfig)

	app.Use(requestid.New())

	origins := strings.Join(cfg.App.CorsAllowedOrigins, ", ")
	if !strings.Contains(origins, cfg.App.BaseUrl) {
		origins += ", " + cfg.App.BaseUrl
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, If-Modified-Since, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	// Infrastructure
	valkeyClient, err := valkey.NewClient(valkey.Config{
		Address:   cfg.Database.ValkeyAddress,
		Password:  cfg.Database.ValkeyPassword,
		DB:        cfg.Database.ValkeyDB,
		KeyPrefix: cfg.Database.ValkeyKeyPrefix,
	})
	if err != nil {
		logrus.Fatalf("failed to connect to valkey: %v", err)
	}
	defer valkeyClient.Close()

	db, err := coreDB.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}

	// Repositories and usecases
	designStore := repository.NewValkeyDesignStore(valkeyClient)
	contactRepo := repository.NewContactGormRepository(db)
	if err := contactRepo.InitSchema(cmd.Context()); err != nil {
		logrus.Fatalf("failed to migrate contact schema: %v", err)
	}

	cacheManager := usecase.NewCacheManager(valkeyClient)
	deps := restDeps{
		Design:    usecase.NewDesignService(designStore),
		History:   usecase.NewHistoryService(designStore),
		Migration: usecase.NewMigrationService(designStore),
		Font:      usecase.NewFontService(cacheManager),
		Contact:   usecase.NewContactService(contactRepo, mailer.FromConfig(cfg.Mail), cfg.Mail),
		Cache:     cacheManager,
		Valkey:    valkeyClient,
	}
	if err := registerRoutes(app, cfg, deps); err != nil {
		logrus.Fatalln(err)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logrus.Infoln("shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

// restDeps carries the wired services into route registration.
type restDeps struct {
	Design    design.IDesignUsecase
	History   design.IHistoryUsecase
	Migration design.IMigrationUsecase
	Font      font.IFontUsecase
	Contact   contact.IContactUsecase
	Cache     domainCache.ICacheManager
	Valkey    *valkey.Client
}

// registerRoutes mounts the REST surface. Limiters are attached to routes,
// never as group middleware: Group(prefix, handler) prefix-matches every
// request when the base path is empty, which would let one rate class gate
// the other's routes.
func registerRoutes(app *fiber.App, cfg *coreconfig.Config, deps restDeps) error {
	readLimit := rateLimiter(cfg.RateLimit.DefaultMax, cfg.RateLimit.WindowSecs)
	saveLimit := rateLimiter(cfg.RateLimit.SaveMax, cfg.RateLimit.WindowSecs)

	// Public surface: health, fonts, contact submission. The submit
	// endpoint gets the save-class quota so the form cannot be spammed.
	public := app.Group(cfg.App.BasePath)
	uiRest.InitRestHealth(public, deps.Valkey, readLimit)
	uiRest.InitRestFont(public, deps.Font, readLimit)

	// Admin surface: basic auth, read-class quota on reads and the
	// stricter save-class quota on mutations.
	if len(cfg.App.BasicAuth) == 0 {
		return errors.New("APP_BASIC_AUTH is required; set APP_BASIC_AUTH=<user>:<secret>[,<user2>:<secret2>] and restart")
	}
	account := make(map[string]string)
	for _, credential := range cfg.App.BasicAuth {
		parts := strings.Split(credential, ":")
		if len(parts) != 2 {
			return errors.New("basic auth is not valid, expected format <user>:<secret>")
		}
		account[parts[0]] = parts[1]
	}

	admin := app.Group(cfg.App.BasePath+"/admin", basicauth.New(basicauth.Config{Users: account}))
	admin.Use(mutationLimiter(cfg.RateLimit.SaveMax, cfg.RateLimit.WindowSecs))
	uiRest.InitRestDesign(admin, deps.Design, deps.History, deps.Cache)
	uiRest.InitRestMigration(admin, deps.Migration, deps.Cache)
	uiRest.InitRestCache(admin, deps.Cache)
	uiRest.InitRestContact(public, admin, deps.Contact, saveLimit)
	return nil
}

// rateLimiter is the read-class sliding window, keyed by client IP plus
// the basic-auth user when present.
func rateLimiter(max, windowSecs int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Duration(windowSecs) * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if user, ok := c.Locals("username").(string); ok && user != "" {
				return c.IP() + ":" + user
			}
			return c.IP()
		},
		LimitReached: rateLimitReached(windowSecs),
	})
}

// mutationLimiter applies the stricter save-class quota to every non-GET
// request; reads get the read-class quota (three times the save quota).
func mutationLimiter(max, windowSecs int) fiber.Handler {
	read := rateLimiter(max*3, windowSecs)
	write := rateLimiter(max, windowSecs)
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet {
			return read(c)
		}
		return write(c)
	}
}

func rateLimitReached(windowSecs int) fiber.Handler {
	limited := pkgError.RateLimitedError("Too many requests, try again later")
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(windowSecs))
		return c.Status(limited.StatusCode()).JSON(utils.ResponseData{
			Status:  limited.StatusCode(),
			Code:    limited.ErrCode(),
			Message: limited.Error(),
		})
	}
}
