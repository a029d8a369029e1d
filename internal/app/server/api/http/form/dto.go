package form

import (
	"fieldsync/internal/domain/form"
)

type listOutput struct {
	Body form.ListResponse
}

type findInput struct {
	ID string `path:"id" doc:"Form ID"`
}

type findOutput struct {
	Body form.Definition
}
