package controller

import (
	"ship-computer-be/internal/dto"
	"ship-computer-be/internal/pkg/serverutils"
	"ship-computer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router, adminMiddleware fiber.Handler)
	TriggerRadiation(ctx *fiber.Ctx) error
	ClearRadiation(ctx *fiber.Ctx) error
	RadiationStatus(ctx *fiber.Ctx) error
	ReportRadiationCleared(ctx *fiber.Ctx) error
}

type adminController struct {
	events service.IEventService
}

func NewAdminController(events service.IEventService) IAdminController {
	return &adminController{events: events}
}

func (c *adminController) RegisterRoutes(r fiber.Router, adminMiddleware fiber.Handler) {
	// The cleared report comes from the prop controller in the room, not
	// from an operator, so it sits outside the admin token gate.
	r.Post("/event/radiation-cleared", c.ReportRadiationCleared)

	h := r.Group("/admin", adminMiddleware)
	h.Post("/radiation/trigger", c.TriggerRadiation)
	h.Post("/radiation/clear", c.ClearRadiation)
	h.Get("/radiation", c.RadiationStatus)
}

func (c *adminController) TriggerRadiation(ctx *fiber.Ctx) error {
	if err := c.events.TriggerRadiationLeak(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Radiation leak triggered", nil))
}

func (c *adminController) ClearRadiation(ctx *fiber.Ctx) error {
	if err := c.events.ClearRadiationLeak(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Radiation leak cleared", nil))
}

func (c *adminController) RadiationStatus(ctx *fiber.Ctx) error {
	active, err := c.events.RadiationStatus(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Radiation status", dto.RadiationStatusResponse{Active: active}))
}

func (c *adminController) ReportRadiationCleared(ctx *fiber.Ctx) error {
	var req dto.RadiationClearedRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if err := c.events.ReportRadiationCleared(ctx.Context(), req); err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Radiation clearance recorded", nil))
}
