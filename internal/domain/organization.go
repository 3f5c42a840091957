package domain

// Organization is a recipient that can accept donations.
type Organization struct {
	ID                 string
	Name               string
	Verified           bool
	Location           Location
	Geohash            string
	Capacity           int
	PreferredFoodTypes []string
}

// AcceptsFoodTypes reports whether the organization takes at least one of the given tags.
// An organization without preferences, or a donation without tags, always matches.
func (o Organization) AcceptsFoodTypes(tags []string) bool {
	if len(o.PreferredFoodTypes) == 0 || len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		for _, p := range o.PreferredFoodTypes {
			if t == p {
				return true
			}
		}
	}
	return false
}
