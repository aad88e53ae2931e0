package model

// LatLng is the basic latitude/longitude pair used across the engine.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Venue is a date-adventure candidate spot. Venues are seeded out-of-band;
// the engine only merge-writes the lazily enriched Address/MapsURL fields.
type Venue struct {
	PlaceID    string   `json:"place_id" firestore:"place_id" db:"place_id"`
	Name       string   `json:"name" firestore:"name" db:"name"`
	Lat        float64  `json:"lat" firestore:"lat" db:"lat"`
	Lng        float64  `json:"lng" firestore:"lng" db:"lng"`
	Geohash    string   `json:"geohash" firestore:"geohash" db:"geohash"`
	Categories []string `json:"categories" firestore:"categories" db:"categories"`
	PriceTier  int      `json:"price_tier" firestore:"price_tier" db:"price_tier"`
	PhotoURL   string   `json:"photo_url" firestore:"photo_url" db:"photo_url"`
	Address    *string  `json:"address,omitempty" firestore:"address" db:"address"`
	MapsURL    *string  `json:"maps_url,omitempty" firestore:"maps_url" db:"maps_url"`
}

// ToLatLng returns the venue position as a LatLng.
func (v *Venue) ToLatLng() LatLng {
	return LatLng{Lat: v.Lat, Lng: v.Lng}
}

// HasAddress reports whether the enrichment cache has already filled the address.
func (v *Venue) HasAddress() bool {
	return v.Address != nil && *v.Address != ""
}

// GetAddress returns the cached address or the empty string.
func (v *Venue) GetAddress() string {
	if v.Address != nil {
		return *v.Address
	}
	return ""
}

// SetAddress stores a non-empty address (empty lookups leave the field nil).
func (v *Venue) SetAddress(address string) {
	if address != "" {
		v.Address = &address
	}
}

// SetMapsURL stores a non-empty maps URL.
func (v *Venue) SetMapsURL(url string) {
	if url != "" {
		v.MapsURL = &url
	}
}

// PlaceDetails is the subset of an external place-details lookup the engine
// merges back into the venue store.
type PlaceDetails struct {
	Address string
	MapsURL string
}

// HasAnyCategory reports whether the venue carries at least one of the given
// category tags.
func (v *Venue) HasAnyCategory(categories []string) bool {
	catSet := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		catSet[c] = struct{}{}
	}
	for _, cat := range v.Categories {
		if _, ok := catSet[cat]; ok {
			return true
		}
	}
	return false
}
