package zones

import "storefront-service/internal/models"

// regionHeader is the sentinel header row value excluded from region lists.
const regionHeader = "Region"

// Resolver answers the three-level delivery zone cascade over a flat zone
// table: region, then town/city within the region, then area/locality with
// its listed delivery fee.
type Resolver struct {
	rows []models.Zone
}

// NewResolver builds a resolver over the location rows from the commerce API.
func NewResolver(rows []models.Zone) *Resolver {
	r := &Resolver{rows: make([]models.Zone, len(rows))}
	copy(r.rows, rows)
	return r
}

// Regions returns distinct region names in source order, excluding empty
// values and the header sentinel.
func (r *Resolver) Regions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range r.rows {
		if row.Region == "" || row.Region == regionHeader || seen[row.Region] {
			continue
		}
		seen[row.Region] = true
		out = append(out, row.Region)
	}
	return out
}

// Towns returns distinct towns within a region, in source order.
func (r *Resolver) Towns(region string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range r.rows {
		if row.Region != region || row.TownCity == "" || seen[row.TownCity] {
			continue
		}
		seen[row.TownCity] = true
		out = append(out, row.TownCity)
	}
	return out
}

// AreaFee is one deliverable area and its listed fee.
type AreaFee struct {
	Area  string  `json:"area"`
	Price float64 `json:"price"`
}

// Areas returns the ordered (area, fee) pairs for a (region, town) pair.
func (r *Resolver) Areas(region, town string) []AreaFee {
	var out []AreaFee
	for _, row := range r.rows {
		if row.Region != region || row.TownCity != town {
			continue
		}
		out = append(out, AreaFee{Area: row.AreaLocality, Price: row.Price})
	}
	return out
}

// FeeFor resolves the listed fee for a fully specified zone. The fee is the
// area's listed price; there is no distance or weight rule.
func (r *Resolver) FeeFor(region, town, area string) (float64, bool) {
	for _, row := range r.rows {
		if row.Region == region && row.TownCity == town && row.AreaLocality == area {
			return row.Price, true
		}
	}
	return 0, false
}
