package snapshot

import "github.com/cruzaro/hpcollect/internal/models"

// The store can hold rows written by older app versions with absent optional
// fields. Mapping normalizes them so every snapshot consumer sees complete
// values.

func normalizeLocations(locations []models.Location) []models.Location {
	for i := range locations {
		if locations[i].Name == "" {
			locations[i].Name = "Unknown Zone"
		}
	}
	return locations
}

func normalizeItems(items []models.Item, defaultBoxValue float64) []models.Item {
	for i := range items {
		it := &items[i]
		if it.BoxValue == 0 {
			it.BoxValue = defaultBoxValue
		}
		// Old rows may predate the stored price column.
		if it.Price == 0 && it.TotalBoxes > 0 {
			it.Price = it.BoxValue * float64(it.TotalBoxes)
		}
	}
	return items
}

func normalizeSettings(fee float64, found bool, defaults models.Settings) models.Settings {
	s := defaults
	if found {
		s.RegistrationFee = fee
	}
	return s
}
