package service

import (
	"strings"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/ws"
	"gesso-pos/pkg/validator"
)

// Actor is the operator performing a request.
type Actor struct {
	ID    string
	Name  string
	Email string
}

func (a Actor) eventUser() *ws.EventUser {
	if a.ID == "" {
		return nil
	}
	return &ws.EventUser{ID: a.ID, Name: a.Name, Email: a.Email}
}

// EventPublisher is satisfied by *ws.Hub.
type EventPublisher interface {
	Publish(event ws.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(ws.Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// validate runs struct tags and reports the first failure as a validation error.
func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	field := first.FailedField
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	appErr := apperror.NewValidation("validation failed on field " + field).
		WithDetail("field", field).
		WithDetail("tag", first.Tag)
	if first.Value != "" {
		appErr.WithDetail("param", first.Value)
	}
	return appErr
}
