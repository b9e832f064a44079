package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smarttester_backend/internals/constants"
	database "smarttester_backend/internals/databases"
	"smarttester_backend/internals/features/school/classes/dto"
	"smarttester_backend/internals/features/school/classes/repository"
	studentRepo "smarttester_backend/internals/features/school/students/repository"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

type ClassController struct {
	Repo      repository.ClassRepository
	Students  studentRepo.StudentRepository
	Validator *validator.Validate
}

func NewClassController(repo repository.ClassRepository, students studentRepo.StudentRepository, v *validator.Validate) *ClassController {
	return &ClassController{Repo: repo, Students: students, Validator: v}
}

// POST /api/classes
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := cc.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m := req.ToModel(id.UserID)
	if err := cc.Repo.CreateClass(c.Context(), m); err != nil {
		return helper.JsonInternal(c, "Failed to create class", err)
	}
	return helper.JsonCreated(c, dto.FromModel(m))
}

// GET /api/classes (?mine=true untuk guru), GET /api/auth/classes (publik)
func (cc *ClassController) ListClasses(c *fiber.Ctx) error {
	var teacherID *uuid.UUID
	if c.QueryBool("mine") {
		if id, err := helperAuth.GetIdentity(c); err == nil && id.Role == constants.RoleTeacher {
			teacherID = &id.UserID
		}
	}
	rows, err := cc.Repo.ListClasses(c.Context(), teacherID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to load classes", err)
	}
	return helper.JsonList(c, dto.FromModels(rows))
}

// GET /api/classes/:classId/students
func (cc *ClassController) ListRoster(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "classId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if _, err := cc.Repo.FindClassByID(c.Context(), classID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
		}
		return helper.JsonInternal(c, "Failed to load class", err)
	}
	rows, err := cc.Students.ListStudents(c.Context(), &classID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to load students", err)
	}
	return helper.JsonList(c, rows)
}
