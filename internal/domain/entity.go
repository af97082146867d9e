// Package domain defines the shared reporting-unit and statistics types.
package domain

// WorldCode is the sentinel identifier for the global aggregate.
const WorldCode = "world"

// WorldIcon is the fixed icon used for the global aggregate.
const WorldIcon = "\U0001f310"

// Entity is a statistical reporting unit: a country known to the data
// provider. The code is the lowercase ISO2 identifier and doubles as the
// canonical lookup key.
type Entity struct {
	Code string `bson:"code" json:"code"`
	Name string `bson:"name" json:"name"`
	ISO3 string `bson:"iso3" json:"iso3"`
	Flag string `bson:"flag" json:"flag"`
}
