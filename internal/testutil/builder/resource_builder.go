//go:build unit || integration

package builder

import (
	"time"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/domain/resource"
	reqdto "turf-booking/internal/handler/dto/request"
	"turf-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	ID         uuid.UUID
	Name       string
	Location   string
	HourlyRate string
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:         uuid.New(),
		Name:       "Green Field Arena",
		Location:   "Koramangala, Bengaluru",
		HourlyRate: "50.00",
	}
}

func (b *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *ResourceBuilder) BuildDomain() (*resource.Resource, error) {
	rate, err := reservation.ParseMoney(b.HourlyRate)
	if err != nil {
		return nil, err
	}
	return resource.NewResource(b.ID, b.Name, b.Location, rate.Cents())
}

func (b *ResourceBuilder) MustBuildDomain() *resource.Resource {
	r, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return r
}

func (b *ResourceBuilder) BuildDTO() reqdto.ResourceRequest {
	return reqdto.ResourceRequest{
		Name:       b.Name,
		Location:   b.Location,
		HourlyRate: b.HourlyRate,
	}
}

func (b *ResourceBuilder) BuildView() *queries.ResourceView {
	now := time.Now()
	return &queries.ResourceView{
		ID:         b.ID,
		Name:       b.Name,
		Location:   b.Location,
		HourlyRate: b.HourlyRate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Fluent builder methods
func (b *ResourceBuilder) WithID(id uuid.UUID) *ResourceBuilder {
	b.ID = id
	return b
}

func (b *ResourceBuilder) WithName(name string) *ResourceBuilder {
	b.Name = name
	return b
}

func (b *ResourceBuilder) WithLocation(location string) *ResourceBuilder {
	b.Location = location
	return b
}

func (b *ResourceBuilder) WithHourlyRate(rate string) *ResourceBuilder {
	b.HourlyRate = rate
	return b
}
