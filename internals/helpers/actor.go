// file: internals/helpers/actor.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalActorID  = "actor_id"
	HeaderActorID = "X-Actor-ID"
)

// ActorFromRequest returns the acting admin: Locals first (set by an auth
// layer in front of this service), then the X-Actor-ID header. uuid.Nil
// when neither carries a valid id; callers that need an actor reject that.
func ActorFromRequest(c *fiber.Ctx) uuid.UUID {
	if raw := c.Locals(LocalActorID); raw != nil {
		switch v := raw.(type) {
		case uuid.UUID:
			return v
		case string:
			if id, err := uuid.Parse(v); err == nil {
				return id
			}
		}
	}
	if h := strings.TrimSpace(c.Get(HeaderActorID)); h != "" {
		if id, err := uuid.Parse(h); err == nil {
			return id
		}
	}
	return uuid.Nil
}

// ParseUUIDParam reads a path param as uuid, 400 when malformed.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" is not a valid id")
	}
	return id, nil
}
