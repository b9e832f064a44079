package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/constants"
	database "smarttester_backend/internals/databases"
	classRepo "smarttester_backend/internals/features/school/classes/repository"
	"smarttester_backend/internals/features/school/students/dto"
	"smarttester_backend/internals/features/school/students/repository"
	authRepo "smarttester_backend/internals/features/users/auth/repository"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

type StudentController struct {
	Repo      repository.StudentRepository
	Users     authRepo.AuthRepository
	Classes   classRepo.ClassRepository
	Validator *validator.Validate
}

func NewStudentController(repo repository.StudentRepository, users authRepo.AuthRepository, classes classRepo.ClassRepository, v *validator.Validate) *StudentController {
	return &StudentController{Repo: repo, Users: users, Classes: classes, Validator: v}
}

// POST /api/students
func (sc *StudentController) EnrollStudent(c *fiber.Ctx) error {
	var req dto.EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := sc.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	user, err := sc.Users.FindUserByID(c.Context(), req.UserID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return helper.JsonError(c, fiber.StatusBadRequest, "User not found")
	case err != nil:
		return helper.JsonInternal(c, "Failed to load user", err)
	case user.Role != constants.RoleStudent:
		return helper.JsonError(c, fiber.StatusBadRequest, "User is not a student")
	}

	if _, err := sc.Classes.FindClassByID(c.Context(), req.ClassID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Class not found")
		}
		return helper.JsonInternal(c, "Failed to load class", err)
	}

	m := req.ToModel()
	if err := sc.Repo.EnrollStudent(c.Context(), m); err != nil {
		switch {
		case errors.Is(err, database.ErrAlreadyEnrolled):
			return helper.JsonError(c, fiber.StatusConflict, "User is already enrolled")
		case errors.Is(err, database.ErrInvalidReference):
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user or class")
		}
		return helper.JsonInternal(c, "Failed to enroll student", err)
	}
	return helper.JsonCreated(c, dto.FromModel(m))
}

// GET /api/auth/students
func (sc *StudentController) ListStudents(c *fiber.Ctx) error {
	rows, err := sc.Repo.ListStudents(c.Context(), nil)
	if err != nil {
		return helper.JsonInternal(c, "Failed to load students", err)
	}
	return helper.JsonList(c, rows)
}

// GET /api/students/children (parent)
func (sc *StudentController) ListMyChildren(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := sc.Repo.ListChildren(c.Context(), id.UserID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to load children", err)
	}
	return helper.JsonList(c, rows)
}
