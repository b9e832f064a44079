package auth

import (
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/constants"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

// RoleMiddlewareWithCustomError validasi role + custom error message
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helperAuth.LocRole).(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthenticated - missing role information")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}

// Shortcut biar lebih clean pemakaian
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}

func TeacherOnly(feature string) fiber.Handler {
	return OnlyRoles(constants.RoleErrorTeacher(feature), constants.TeacherOnly...)
}

func StudentOnly(feature string) fiber.Handler {
	return OnlyRoles(constants.RoleErrorStudent(feature), constants.StudentOnly...)
}

func ParentOnly(feature string) fiber.Handler {
	return OnlyRoles(constants.RoleErrorParent(feature), constants.ParentOnly...)
}
