package response

import (
	"time"

	"turf-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ResourceResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	HourlyRate string    `json:"hourly_rate"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromResourceView(v *queries.ResourceView) *ResourceResponse {
	resp := &ResourceResponse{}
	_ = copier.Copy(resp, v)
	return resp
}

func FromResourceList(items []*queries.ResourceView) []*ResourceResponse {
	out := make([]*ResourceResponse, 0, len(items))
	for _, v := range items {
		out = append(out, FromResourceView(v))
	}
	return out
}

type ResourceListResponse struct {
	Resources []*ResourceResponse `json:"resources"`
}

func NewResourceListResponse(items []*queries.ResourceView) ResourceListResponse {
	return ResourceListResponse{Resources: FromResourceList(items)}
}
