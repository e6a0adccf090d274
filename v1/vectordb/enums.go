package vectordb

import (
	"fmt"
	"strings"
)

// ── Distance ─────────────────────────────────────────────────────────────────

// Distance is the similarity metric of a collection.
type Distance int

const (
	DistanceUnknown Distance = iota
	DistanceCosine
	DistanceEuclid
	DistanceDot
	DistanceManhattan
)

var distanceNames = map[Distance]string{
	DistanceUnknown:   "UnknownDistance",
	DistanceCosine:    "Cosine",
	DistanceEuclid:    "Euclid",
	DistanceDot:       "Dot",
	DistanceManhattan: "Manhattan",
}

func (d Distance) String() string {
	if name, ok := distanceNames[d]; ok {
		return name
	}
	return distanceNames[DistanceUnknown]
}

// ParseDistance is case-insensitive and returns DistanceUnknown with an
// error for names it does not recognise.
func ParseDistance(s string) (Distance, error) {
	for d, name := range distanceNames {
		if strings.EqualFold(s, name) {
			return d, nil
		}
	}
	return DistanceUnknown, fmt.Errorf("vectordb: unknown distance %q", s)
}

func (d Distance) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Distance) UnmarshalText(text []byte) error {
	v, err := ParseDistance(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ── Region ───────────────────────────────────────────────────────────────────

// Region is the geographic placement of a collection.
type Region int

const (
	RegionUS Region = iota
	RegionEU
	RegionAU
)

var regionNames = map[Region]string{
	RegionUS: "US",
	RegionEU: "EU",
	RegionAU: "AU",
}

func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Region(%d)", int(r))
}

func ParseRegion(s string) (Region, error) {
	for r, name := range regionNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return RegionUS, fmt.Errorf("vectordb: unknown region %q", s)
}

func (r Region) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Region) UnmarshalText(text []byte) error {
	v, err := ParseRegion(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ── Cloud ────────────────────────────────────────────────────────────────────

// Cloud is the hosting provider of a managed collection.
type Cloud int

const (
	CloudGCP Cloud = iota
	CloudAWS
	CloudAzure
)

var cloudNames = map[Cloud]string{
	CloudGCP:   "GCP",
	CloudAWS:   "AWS",
	CloudAzure: "AZURE",
}

func (c Cloud) String() string {
	if name, ok := cloudNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Cloud(%d)", int(c))
}

func ParseCloud(s string) (Cloud, error) {
	for c, name := range cloudNames {
		if strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return CloudGCP, fmt.Errorf("vectordb: unknown cloud %q", s)
}

func (c Cloud) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cloud) UnmarshalText(text []byte) error {
	v, err := ParseCloud(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ── SearchType ───────────────────────────────────────────────────────────────

// SearchType tells an adapter what a SearchRequest addresses.
type SearchType int

const (
	SearchTypeCollection SearchType = iota
	SearchTypePoint
	SearchTypeSimilarity
)

var searchTypeNames = map[SearchType]string{
	SearchTypeCollection: "Collection",
	SearchTypePoint:      "Point",
	SearchTypeSimilarity: "Similarity",
}

func (t SearchType) String() string {
	if name, ok := searchTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SearchType(%d)", int(t))
}

func (t SearchType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *SearchType) UnmarshalText(text []byte) error {
	for v, name := range searchTypeNames {
		if strings.EqualFold(string(text), name) {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("vectordb: unknown search type %q", string(text))
}
