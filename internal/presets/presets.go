package presets

import (
	"fmt"
	"strings"

	"lotsheet/internal"
)

// Store is the keyed preset lookup. storage.DB satisfies it; tests use an
// in-memory implementation.
type Store interface {
	GetPreset(building, category string) (*internal.Preset, error)
	PutPreset(p internal.Preset) error
	DeletePreset(building, category string) error
	ListPresets() ([]internal.Preset, error)
}

// Resolve looks up the preset for a building/category pair and builds the
// template metadata bundle for a delivery on the given date.
func Resolve(store Store, building, category, deliveryDate string) (internal.Metadata, error) {
	p, err := store.GetPreset(building, category)
	if err != nil {
		return internal.Metadata{}, err
	}
	if p == nil {
		return internal.Metadata{}, fmt.Errorf("no preset for building=%q category=%q", building, category)
	}

	return internal.Metadata{
		Project:      p.Project,
		Location:     p.Location,
		DeliveryDate: deliveryDate,
		SiteContact:  p.SiteContact,
		Phone:        p.Phone,
		Building:     p.Building,
		Category:     p.Category,
	}, nil
}

// Validate rejects presets with any blank field; every field ends up in
// the template header or appended rows.
func Validate(p internal.Preset) error {
	fields := map[string]string{
		"building":     p.Building,
		"category":     p.Category,
		"project":      p.Project,
		"location":     p.Location,
		"site contact": p.SiteContact,
		"phone":        p.Phone,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("preset %s must not be empty", name)
		}
	}
	return nil
}
