package controller

import (
	"ship-computer-be/internal/dto"
	"ship-computer-be/internal/pkg/serverutils"
	"ship-computer-be/internal/service"
	"ship-computer-be/pkg/engine/state"

	"github.com/gofiber/fiber/v2"
)

type ICommandController interface {
	RegisterRoutes(r fiber.Router)
	ProcessCommand(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
}

type commandController struct {
	service service.ICommandService
	state   *state.Manager
}

func NewCommandController(svc service.ICommandService, st *state.Manager) ICommandController {
	return &commandController{service: svc, state: st}
}

func (c *commandController) RegisterRoutes(r fiber.Router) {
	r.Post("/command", c.ProcessCommand)
	r.Get("/status", c.GetStatus)
}

func (c *commandController) ProcessCommand(ctx *fiber.Ctx) error {
	var req dto.CommandRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Process(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	// The command surface answers with the raw result document, not the
	// standard envelope. Bridge consoles speak this shape directly.
	return ctx.JSON(dto.CommandResponse{
		Updates:          res.Updates,
		Response:         res.Response,
		MissionSuccess:   res.MissionSuccess,
		RankUp:           res.RankUp,
		Alert:            res.Alert,
		RequiredLocation: res.RequiredLocation,
	})
}

func (c *commandController) GetStatus(ctx *fiber.Ctx) error {
	systems, err := c.state.ShipStatus(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	leak, err := c.state.RadiationLeakActive(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Ship status", dto.StatusResponse{
		Systems:       systems,
		RadiationLeak: leak,
	}))
}
