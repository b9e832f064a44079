package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	database "smarttester_backend/internals/databases"
	"smarttester_backend/internals/features/users/auth/dto"
	"smarttester_backend/internals/features/users/auth/service"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

type AuthController struct {
	Service   *service.AuthService
	Validator *validator.Validate
}

func NewAuthController(svc *service.AuthService, v *validator.Validate) *AuthController {
	return &AuthController{Service: svc, Validator: v}
}

func writeError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case helper.IsValidationError(err):
		return helper.JsonValidationError(c, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrWrongPassword):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Current password incorrect")
	case errors.Is(err, database.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	default:
		return helper.JsonInternal(c, "Internal server error", err)
	}
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ac.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	user, token, err := ac.Service.Register(c.Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonCreated(c, dto.RegisterResponse{Token: token, Role: user.Role, ID: user.ID})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	user, token, err := ac.Service.Login(c.Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, dto.LoginResponse{Token: token, Role: user.Role, ID: user.ID, Name: user.UserName})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	me, err := ac.Service.Me(c.Context(), id.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, me)
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := ac.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if err := ac.Service.ChangePassword(c.Context(), id.UserID, &req); err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, fiber.Map{"success": true, "message": "Password updated"})
}

// POST /api/auth/parents
func (ac *AuthController) LinkParent(c *fiber.Ctx) error {
	var req dto.LinkParentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if err := ac.Service.LinkParent(c.Context(), &req); err != nil {
		return writeError(c, err)
	}
	return helper.JsonCreated(c, fiber.Map{
		"success":     true,
		"message":     "Parent linked",
		"parent_id":   req.ParentID,
		"student_ids": req.StudentIDs,
	})
}
