package analysis

import (
	"strings"
)

// Role is a canonical column meaning, independent of the source header.
type Role string

const (
	RoleLatitude  Role = "latitude"
	RoleLongitude Role = "longitude"
	RoleLocality  Role = "locality"
	RoleRating    Role = "rating"
	RoleCity      Role = "city"
	RoleName      Role = "name"
	RoleCuisines  Role = "cuisines"
	RoleCost      Role = "cost"
)

// Roles lists every role in display order.
var Roles = []Role{RoleLatitude, RoleLongitude, RoleCity, RoleLocality, RoleRating, RoleName, RoleCuisines, RoleCost}

type roleSpec struct {
	synonyms []string
	// ranked roles prefer earlier synonyms over earlier columns.
	ranked bool
}

var roleSpecs = map[Role]roleSpec{
	RoleLatitude:  {synonyms: []string{"latitude", "lat"}},
	RoleLongitude: {synonyms: []string{"longitude", "lon", "long"}},
	RoleCity:      {synonyms: []string{"city"}},
	RoleLocality:  {synonyms: []string{"locality", "locality verbose"}, ranked: true},
	RoleRating:    {synonyms: []string{"aggregate rating", "rating", "rating text"}, ranked: true},
	RoleName:      {synonyms: []string{"restaurant name"}},
	RoleCuisines:  {synonyms: []string{"cuisines"}},
	RoleCost:      {synonyms: []string{"average cost for two", "cost for two"}, ranked: true},
}

// Columns binds each role to a source column name. An empty name means the
// role is unresolved. Values are built once by ResolveColumns and never
// modified afterwards.
type Columns struct {
	Latitude  string
	Longitude string
	Locality  string
	Rating    string
	City      string
	Name      string
	Cuisines  string
	Cost      string
}

// ResolveColumns matches column names against role synonyms, ignoring case
// and surrounding whitespace. Unresolved roles are left empty.
func ResolveColumns(columns []string) Columns {
	var c Columns
	for _, r := range Roles {
		c = c.with(r, resolveRole(columns, roleSpecs[r]))
	}
	return c
}

func resolveRole(columns []string, spec roleSpec) string {
	norm := make([]string, len(columns))
	for i, col := range columns {
		norm[i] = strings.ToLower(strings.TrimSpace(col))
	}
	if spec.ranked {
		for _, syn := range spec.synonyms {
			for i, n := range norm {
				if n == syn {
					return columns[i]
				}
			}
		}
		return ""
	}
	for i, n := range norm {
		for _, syn := range spec.synonyms {
			if n == syn {
				return columns[i]
			}
		}
	}
	return ""
}

// Lookup returns the column bound to r and whether it resolved.
func (c Columns) Lookup(r Role) (string, bool) {
	var name string
	switch r {
	case RoleLatitude:
		name = c.Latitude
	case RoleLongitude:
		name = c.Longitude
	case RoleLocality:
		name = c.Locality
	case RoleRating:
		name = c.Rating
	case RoleCity:
		name = c.City
	case RoleName:
		name = c.Name
	case RoleCuisines:
		name = c.Cuisines
	case RoleCost:
		name = c.Cost
	}
	return name, name != ""
}

// with returns a copy of c with role r bound to name.
func (c Columns) with(r Role, name string) Columns {
	switch r {
	case RoleLatitude:
		c.Latitude = name
	case RoleLongitude:
		c.Longitude = name
	case RoleLocality:
		c.Locality = name
	case RoleRating:
		c.Rating = name
	case RoleCity:
		c.City = name
	case RoleName:
		c.Name = name
	case RoleCuisines:
		c.Cuisines = name
	case RoleCost:
		c.Cost = name
	}
	return c
}

// HasCoords reports whether both coordinate roles resolved.
func (c Columns) HasCoords() bool { return c.Latitude != "" && c.Longitude != "" }

// Unresolved lists roles without a bound column, in Roles order.
func (c Columns) Unresolved() []Role {
	var out []Role
	for _, r := range Roles {
		if _, ok := c.Lookup(r); !ok {
			out = append(out, r)
		}
	}
	return out
}

// Map returns the bindings keyed by role name; unresolved roles are omitted.
func (c Columns) Map() map[string]string {
	out := make(map[string]string, len(Roles))
	for _, r := range Roles {
		if name, ok := c.Lookup(r); ok {
			out[string(r)] = name
		}
	}
	return out
}
