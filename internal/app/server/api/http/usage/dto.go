package usage

import (
	"fleetlog/internal/domain/usage"
)

type listInput struct {
	Serial string `path:"serial" example:"LV-100" doc:"Aircraft serial"`
}

type listOutput struct {
	Body []usage.Row
}

type createInput struct {
	Serial string `path:"serial" example:"LV-100" doc:"Aircraft serial"`
	Body   usage.Draft
}

type updateInput struct {
	ID   int64 `path:"id" example:"1" doc:"Row id"`
	Body usage.Patch
}

type rowOutput struct {
	Status int
	Body   usage.Row
}
