package pinecone

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	pinecone "github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// ── Placement ────────────────────────────────────────────────────────────────

// Serverless region names. Each doubles as the name of the index that holds
// every collection placed in that region.
var regionLocators = map[vectordb.Region]string{
	vectordb.RegionUS: "us-central1",
	vectordb.RegionEU: "europe-west4",
	vectordb.RegionAU: "australia-southeast1",
}

var cloudLocators = map[vectordb.Cloud]pinecone.Cloud{
	vectordb.CloudGCP:   pinecone.Gcp,
	vectordb.CloudAWS:   pinecone.Aws,
	vectordb.CloudAzure: pinecone.Azure,
}

// RegionLocator returns the index name and serverless region for r.
func RegionLocator(r vectordb.Region) string {
	if loc, ok := regionLocators[r]; ok {
		return loc
	}
	return regionLocators[vectordb.RegionUS]
}

// ParseRegionLocator inverts RegionLocator.
func ParseRegionLocator(s string) (vectordb.Region, error) {
	for r, loc := range regionLocators {
		if loc == s {
			return r, nil
		}
	}
	return vectordb.RegionUS, fmt.Errorf("unknown pinecone region %q", s)
}

type placement struct {
	cloud  vectordb.Cloud
	region vectordb.Region
}

// Serverless regions per cloud. GCP regions coincide with the index names.
var serverlessRegions = map[placement]string{
	{vectordb.CloudGCP, vectordb.RegionUS}:   "us-central1",
	{vectordb.CloudGCP, vectordb.RegionEU}:   "europe-west4",
	{vectordb.CloudGCP, vectordb.RegionAU}:   "australia-southeast1",
	{vectordb.CloudAWS, vectordb.RegionUS}:   "us-east-1",
	{vectordb.CloudAWS, vectordb.RegionEU}:   "eu-west-1",
	{vectordb.CloudAzure, vectordb.RegionUS}: "eastus2",
}

// ServerlessRegion returns the cloud region an index for r is created in.
// Pairs Pinecone does not offer are an Other error.
func ServerlessRegion(c vectordb.Cloud, r vectordb.Region) (string, error) {
	if loc, ok := serverlessRegions[placement{c, r}]; ok {
		return loc, nil
	}
	return "", vectordb.NewOtherError("pinecone serverless is not available in region %s on cloud %s", r, c)
}

// CloudLocator returns the SDK cloud for c.
func CloudLocator(c vectordb.Cloud) pinecone.Cloud {
	if loc, ok := cloudLocators[c]; ok {
		return loc
	}
	return pinecone.Gcp
}

// ParseCloudLocator inverts CloudLocator.
func ParseCloudLocator(c pinecone.Cloud) (vectordb.Cloud, error) {
	for k, loc := range cloudLocators {
		if loc == c {
			return k, nil
		}
	}
	return vectordb.CloudGCP, fmt.Errorf("unknown pinecone cloud %q", c)
}

// ── Metrics ──────────────────────────────────────────────────────────────────

// DistanceFromMetric is total: metrics this package does not know map to
// DistanceUnknown.
func DistanceFromMetric(m pinecone.IndexMetric) vectordb.Distance {
	switch m {
	case pinecone.Cosine:
		return vectordb.DistanceCosine
	case pinecone.Dotproduct:
		return vectordb.DistanceDot
	case pinecone.Euclidean:
		return vectordb.DistanceEuclid
	default:
		return vectordb.DistanceUnknown
	}
}

// MetricFromDistance fails for distances Pinecone has no metric for.
func MetricFromDistance(d vectordb.Distance) (pinecone.IndexMetric, error) {
	switch d {
	case vectordb.DistanceCosine:
		return pinecone.Cosine, nil
	case vectordb.DistanceDot:
		return pinecone.Dotproduct, nil
	case vectordb.DistanceEuclid:
		return pinecone.Euclidean, nil
	default:
		return "", vectordb.NewOtherError("distance %s is not supported by pinecone", d)
	}
}

// ── Records ──────────────────────────────────────────────────────────────────

// toVector converts p, assigning a random UUID when p has no index.
func toVector(p vectordb.Point) (Vector, error) {
	id := uuid.NewString()
	if p.Index != nil && *p.Index != "" {
		id = *p.Index
	}
	md, err := payloadToMetadata(p.Payload)
	if err != nil {
		return Vector{}, err
	}
	return Vector{ID: id, Values: p.Vector, Metadata: md}, nil
}

func payloadToMetadata(payload map[string]string) (*structpb.Struct, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	fields := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		fields[k] = v
	}
	md, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, vectordb.NewOtherError("invalid payload: %v", err)
	}
	return md, nil
}

// metadataToPayload flattens metadata to strings. Non-string scalars are
// formatted; lists and nested objects keep their JSON form.
func metadataToPayload(md *structpb.Struct) map[string]string {
	if md == nil || len(md.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(md.Fields))
	for k, v := range md.Fields {
		out[k] = valueString(v)
	}
	return out
}

func valueString(v *structpb.Value) string {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue)
	case *structpb.Value_NullValue, nil:
		return ""
	default:
		data, err := json.Marshal(v.AsInterface())
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func toSearchResult(m Match, includePayload, includeVectors bool) vectordb.SearchResult {
	score := m.Score
	r := vectordb.SearchResult{ID: m.ID, Score: &score}
	if includePayload {
		r.Payload = metadataToPayload(m.Metadata)
	}
	if includeVectors && len(m.Values) > 0 {
		r.Vector = m.Values
	}
	return r
}
