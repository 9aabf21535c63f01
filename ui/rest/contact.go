package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/daeho-materials/daeho-web/domains/contact"
	"github.com/daeho-materials/daeho-web/pkg/httpcache"
	"github.com/daeho-materials/daeho-web/pkg/utils"
)

type Contact struct {
	Service contact.IContactUsecase
}

// InitRestContact wires the public submission endpoint with the strict
// save-class limiter on the route itself; the admin listing is registered
// separately under the authenticated group.
func InitRestContact(public fiber.Router, admin fiber.Router, service contact.IContactUsecase, submitLimit fiber.Handler) Contact {
	rest := Contact{Service: service}
	public.Post("/contact", submitLimit, rest.Submit)
	admin.Get("/contact/messages", rest.List)
	return rest
}

func (controller *Contact) Submit(c *fiber.Ctx) error {
	var request contact.SubmitRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	message, err := controller.Service.Submit(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	httpcache.ApplyNoStore(c)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success submit contact message",
		Results: fiber.Map{
			"id":     message.ID,
			"mailed": message.Mailed,
		},
	})
}

func (controller *Contact) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	messages, total, err := controller.Service.List(c.UserContext(), limit, offset)
	utils.PanicIfNeeded(err)

	httpcache.ApplyNoStore(c)
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch contact messages",
		Results: fiber.Map{
			"messages": messages,
			"total":    total,
		},
	})
}
