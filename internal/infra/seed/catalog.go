package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/domain/resource"
	"turf-booking/internal/usecase/shared"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Catalog is the resource list read from STORE_CATALOG_FILE:
//
//	[[resource]]
//	id = "5b0c..."
//	name = "Green Field Arena"
//	location = "Koramangala, Bengaluru"
//	hourly_rate = "50.00"
type Catalog struct {
	Resources []CatalogResource `toml:"resource"`
}

type CatalogResource struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Location   string `toml:"location"`
	HourlyRate string `toml:"hourly_rate"`
}

func LoadCatalog(path string) (*Catalog, error) {
	var c Catalog
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown catalog keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return &c, nil
}

// Domain validates every entry and converts it, failing on the first bad one.
func (c *Catalog) Domain() ([]*resource.Resource, error) {
	out := make([]*resource.Resource, 0, len(c.Resources))
	seen := make(map[uuid.UUID]struct{}, len(c.Resources))

	for i, entry := range c.Resources {
		id, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: invalid id %q: %w", i, entry.ID, err)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %s", i, id)
		}
		seen[id] = struct{}{}

		rate, err := reservation.ParseMoney(entry.HourlyRate)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: hourly_rate %q: %w", i, entry.HourlyRate, err)
		}
		r, err := resource.NewResource(id, entry.Name, entry.Location, rate.Cents())
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Apply creates catalog resources that are not stored yet. Existing ids are
// left untouched so restarts never overwrite administrative edits.
func Apply(ctx context.Context, uow shared.UnitOfWork, c *Catalog, logger *slog.Logger) (int, error) {
	resources, err := c.Domain()
	if err != nil {
		return 0, err
	}

	created := 0
	err = uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = 0
		for _, r := range resources {
			exists, err := tx.Resources().Exists(ctx, r.ID())
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := tx.Resources().Create(ctx, r); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("resource catalog applied", "entries", len(resources), "created", created)
	return created, nil
}
