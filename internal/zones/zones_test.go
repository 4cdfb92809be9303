package zones

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func testRows() []models.Zone {
	return []models.Zone{
		{Region: "Region", TownCity: "Town_City", AreaLocality: "Area_Locality", Price: 0},
		{Region: "Greater Accra", TownCity: "Accra", AreaLocality: "Osu", Price: 15},
		{Region: "Greater Accra", TownCity: "Accra", AreaLocality: "Labone", Price: 20},
		{Region: "Greater Accra", TownCity: "Tema", AreaLocality: "Community 1", Price: 25},
		{Region: "Ashanti", TownCity: "Kumasi", AreaLocality: "Adum", Price: 30},
		{Region: "", TownCity: "", AreaLocality: "", Price: 0},
	}
}

func TestRegionsExcludeHeaderAndEmpty(t *testing.T) {
	r := NewResolver(testRows())
	assert.Equal(t, []string{"Greater Accra", "Ashanti"}, r.Regions())
}

func TestTownsScopedToRegion(t *testing.T) {
	r := NewResolver(testRows())

	assert.Equal(t, []string{"Accra", "Tema"}, r.Towns("Greater Accra"))
	assert.Equal(t, []string{"Kumasi"}, r.Towns("Ashanti"))
	assert.Empty(t, r.Towns("Volta"))
}

func TestAreasCarryListedFees(t *testing.T) {
	r := NewResolver(testRows())

	areas := r.Areas("Greater Accra", "Accra")
	assert.Equal(t, []AreaFee{
		{Area: "Osu", Price: 15},
		{Area: "Labone", Price: 20},
	}, areas)

	assert.Empty(t, r.Areas("Greater Accra", "Kumasi"))
}

func TestFeeFor(t *testing.T) {
	r := NewResolver(testRows())

	fee, ok := r.FeeFor("Ashanti", "Kumasi", "Adum")
	assert.True(t, ok)
	assert.Equal(t, 30.0, fee)

	_, ok = r.FeeFor("Ashanti", "Kumasi", "Osu")
	assert.False(t, ok, "area must match within its own region and town")
}
