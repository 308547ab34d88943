package controller

import (
	"ship-computer-be/internal/dto"
	"ship-computer-be/internal/pkg/serverutils"
	"ship-computer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	GetProfile(ctx *fiber.Ctx) error
	UpdateLocation(ctx *fiber.Ctx) error
	GetLeaderboard(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	r.Post("/user", c.Register)
	r.Get("/user/:id", c.GetProfile)
	r.Post("/location", c.UpdateLocation)
	r.Get("/leaderboard", c.GetLeaderboard)
}

func (c *userController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Register(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Crew member registered", res))
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userID := ctx.Params("id")
	res, err := c.service.GetProfile(ctx.Context(), userID)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Crew profile", res))
}

func (c *userController) UpdateLocation(ctx *fiber.Ctx) error {
	var req dto.LocationUpdateRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.UpdateLocation(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Location updated", res))
}

func (c *userController) GetLeaderboard(ctx *fiber.Ctx) error {
	res, err := c.service.Leaderboard(ctx.Context(), ctx.QueryInt("limit", 10))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Leaderboard", res))
}
