package rest

import (
	"github.com/gofiber/fiber/v2"

	domainFont "github.com/daeho-materials/daeho-web/domains/font"
	"github.com/daeho-materials/daeho-web/pkg/httpcache"
	"github.com/daeho-materials/daeho-web/pkg/utils"
)

type Font struct {
	Service domainFont.IFontUsecase
}

func InitRestFont(app fiber.Router, service domainFont.IFontUsecase, limit fiber.Handler) Font {
	rest := Font{Service: service}
	app.Get("/fonts", limit, rest.List)
	app.Get("/fonts/search", limit, rest.Search)
	app.Post("/fonts/search", limit, rest.Search)
	return rest
}

func (controller *Font) List(c *fiber.Ctx) error {
	fonts, err := controller.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	httpcache.Apply(c, httpcache.ClassFontList)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch fonts",
		Results: fonts,
	})
}

// Search accepts either query parameters (GET) or a JSON body (POST).
func (controller *Font) Search(c *fiber.Ctx) error {
	request := domainFont.SearchRequest{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Subset:   c.Query("subset"),
	}
	if c.Method() == fiber.MethodPost {
		err := c.BodyParser(&request)
		utils.PanicIfNeeded(err)
	}

	fonts, err := controller.Service.Search(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	httpcache.Apply(c, httpcache.ClassFontSearch)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success search fonts",
		Results: fonts,
	})
}
