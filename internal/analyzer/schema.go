package analyzer

import "github.com/BerylCAtieno/listing-expert-agent/internal/schema"

// ResultsSchema is sent as the response schema and reused to validate the
// response text. Every property is required at every level.
var ResultsSchema = schema.Object(
	schema.Field{Name: "keywordAnalysis", Schema: schema.Object(
		schema.Field{Name: "roots", Schema: schema.ArrayOf(schema.String()).
			Describe("Core keyword roots obtained by root decomposition")},
		schema.Field{Name: "highFreq", Schema: schema.ArrayOf(schema.Object(
			schema.Field{Name: "word", Schema: schema.String()},
			schema.Field{Name: "count", Schema: schema.Number()},
		)).Describe("High-frequency word statistics")},
		schema.Field{Name: "coreKeywords", Schema: schema.ArrayOf(schema.String()).
			Describe("Core keywords to embed in the listing copy")},
	)},
	schema.Field{Name: "competitorInsights", Schema: schema.Object(
		schema.Field{Name: "writingStyles", Schema: schema.String()},
		schema.Field{Name: "coreKeywordUsage", Schema: schema.String()},
		schema.Field{Name: "sellingPoints", Schema: schema.ArrayOf(schema.String())},
	)},
	schema.Field{Name: "reviewInsights", Schema: schema.Object(
		schema.Field{Name: "painPoints", Schema: schema.ArrayOf(schema.String()).
			Describe("Main consumer pain points")},
		schema.Field{Name: "defects", Schema: schema.ArrayOf(schema.String()).
			Describe("Common defects of competitor products")},
	)},
	schema.Field{Name: "listings", Schema: schema.Object(
		schema.Field{Name: "version1", Schema: listingSchema()},
		schema.Field{Name: "version2", Schema: listingSchema()},
	)},
)

func listingSchema() *schema.Schema {
	return schema.Object(
		schema.Field{Name: "title", Schema: schema.String()},
		schema.Field{Name: "bullets", Schema: schema.ArrayOf(schema.String())},
		schema.Field{Name: "description", Schema: schema.String()},
	)
}
