package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/constants"
	"smarttester_backend/internals/features/users/user/dto"
	"smarttester_backend/internals/features/users/user/repository"
	helper "smarttester_backend/internals/helpers"
)

type UserController struct {
	Repo repository.UserRepository
}

func NewUserController(repo repository.UserRepository) *UserController {
	return &UserController{Repo: repo}
}

// GET /api/users?role=student&q=andi&unenrolled=true&page=1&per_page=25
// Dipakai guru untuk mencari akun siswa sebelum POST /api/students.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	role := strings.ToLower(strings.TrimSpace(c.Query("role")))
	if role != "" && !constants.IsValidRole(role) {
		return helper.JsonError(c, fiber.StatusBadRequest, "role tidak dikenal")
	}

	page := helper.ParsePage(c, helper.DefaultPageOpts)
	users, total, err := uc.Repo.ListUsers(c.Context(), repository.UserFilter{
		Role:       role,
		Query:      c.Query("q"),
		Unenrolled: c.QueryBool("unenrolled"),
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	})
	if err != nil {
		return helper.JsonInternal(c, "Failed to retrieve users", err)
	}
	return helper.JsonPage(c, dto.FromModels(users), helper.BuildPageMeta(total, page))
}
