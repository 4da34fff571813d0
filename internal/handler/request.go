package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/middleware"
	"gesso-pos/internal/model"
	"gesso-pos/internal/service"
)

const dateLayout = "2006-01-02"

// getActor reads the operator set by middleware.RequireAuth.
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{ID: "system", Name: "Unknown"}
	if id, ok := c.Locals(middleware.LocalUserID).(string); ok {
		actor.ID = id
	}
	if name, ok := c.Locals(middleware.LocalUserName).(string); ok {
		actor.Name = name
	}
	if email, ok := c.Locals(middleware.LocalUserEmail).(string); ok {
		actor.Email = email
	}
	return actor
}

func parseID(c *fiber.Ctx, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NewValidation("invalid " + entity + " id").WithDetail("id", c.Params("id"))
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.NewValidation("invalid JSON body").WithCause(err)
	}
	return nil
}

// parsePeriod reads ?from=&to= as local calendar days; "to" covers the whole day.
func parsePeriod(c *fiber.Ctx) (model.DateRange, error) {
	var period model.DateRange
	if raw := c.Query("from"); raw != "" {
		from, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return period, apperror.NewValidation("from must use YYYY-MM-DD").WithDetail("field", "from")
		}
		period.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return period, apperror.NewValidation("to must use YYYY-MM-DD").WithDetail("field", "to")
		}
		period.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !period.From.IsZero() && !period.To.IsZero() && period.To.Before(period.From) {
		return period, apperror.NewValidation("to must not precede from").WithDetail("field", "to")
	}
	return period, nil
}

func optionalUUID(raw string, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + field).WithDetail("field", field)
	}
	return &id, nil
}
