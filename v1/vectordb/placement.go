package vectordb

// PlacementPolicy supplies the region and cloud used when a request leaves
// them unset. Adapters hold one instead of hard-coding the fallback.
type PlacementPolicy struct {
	Region Region `yaml:"region" envconfig:"VECTORDB_DEFAULT_REGION"`
	Cloud  Cloud  `yaml:"cloud" envconfig:"VECTORDB_DEFAULT_CLOUD"`
}

// DefaultPlacementPolicy falls back to US on GCP.
var DefaultPlacementPolicy = PlacementPolicy{Region: RegionUS, Cloud: CloudGCP}

func (p PlacementPolicy) ResolveRegion(r *Region) Region {
	if r == nil {
		return p.Region
	}
	return *r
}

func (p PlacementPolicy) ResolveCloud(c *Cloud) Cloud {
	if c == nil {
		return p.Cloud
	}
	return *c
}
