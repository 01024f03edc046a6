package request

import (
	"turf-booking/internal/usecase/commands"
)

type ResourceRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Location   string `json:"location" binding:"required,max=200"`
	HourlyRate string `json:"hourly_rate" binding:"required"`
}

func (r ResourceRequest) ToParams() commands.CreateResourceParams {
	return commands.CreateResourceParams{
		Name:       r.Name,
		Location:   r.Location,
		HourlyRate: r.HourlyRate,
	}
}

// UpdateResourceRequest is a partial update; omitted fields keep their value.
type UpdateResourceRequest struct {
	Name       *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Location   *string `json:"location,omitempty" binding:"omitempty,max=200"`
	HourlyRate *string `json:"hourly_rate,omitempty"`
}

func (r UpdateResourceRequest) ToParams() commands.UpdateResourceParams {
	return commands.UpdateResourceParams{
		Name:       r.Name,
		Location:   r.Location,
		HourlyRate: r.HourlyRate,
	}
}
