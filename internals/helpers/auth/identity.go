package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Kunci Locals yang diisi AuthJWT.
const (
	LocUserID   = "user_id"
	LocRole     = "userRole"
	LocClassID  = "class_id"
	LocUserName = "user_name"
)

type Identity struct {
	UserID  uuid.UUID
	Role    string
	ClassID *uuid.UUID
	Name    string
}

func (id Identity) Is(role string) bool { return id.Role == role }

// StoreIdentity menyimpan identity hasil verifikasi token ke Locals.
func StoreIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(LocUserID, id.UserID.String())
	c.Locals(LocRole, id.Role)
	c.Locals(LocUserName, id.Name)
	if id.ClassID != nil {
		c.Locals(LocClassID, id.ClassID.String())
	}
}

// GetIdentity membaca kembali identity dari Locals (HARUS lewat AuthJWT).
func GetIdentity(c *fiber.Ctx) (Identity, error) {
	raw, ok := c.Locals(LocUserID).(string)
	if !ok || raw == "" {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "unauthenticated")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "unauthenticated: invalid user id")
	}
	role, _ := c.Locals(LocRole).(string)
	name, _ := c.Locals(LocUserName).(string)

	id := Identity{UserID: userID, Role: role, Name: name}
	if s, ok := c.Locals(LocClassID).(string); ok && s != "" {
		if cid, err := uuid.Parse(s); err == nil {
			id.ClassID = &cid
		}
	}
	return id, nil
}

// GetUserIDFromToken: shortcut untuk controller yang hanya butuh user_id.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := GetIdentity(c)
	if err != nil {
		return uuid.Nil, err
	}
	return id.UserID, nil
}
