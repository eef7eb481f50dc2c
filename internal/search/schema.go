package search

// PlacesIndexName is the single index the ingest core writes place
// documents into; the query service reads from the same name.
const PlacesIndexName = "places"

// VersionIndexName is the auxiliary kv index holding one
// domain.SourceVersionRecord per source_file (§3, §4.5).
const VersionIndexName = "source_versions"

// PlacesSchema is the §6 index schema: an indexing analyzer with ASCII
// folding, a query analyzer with synonym expansion, and an edge-ngram
// autocomplete analyzer (min=1, max=15), plus dynamic mappings for
// `name.*` and `parent.*.name_*`. It is opaque JSON as far as this package
// is concerned — the backend interprets it; the ingest core only ever
// passes it to CreateIndex unchanged.
var PlacesSchema = map[string]interface{}{
	"settings": map[string]interface{}{
		"analysis": map[string]interface{}{
			"filter": map[string]interface{}{
				"ascii_fold": map[string]interface{}{
					"type":            "asciifolding",
					"preserve_original": true,
				},
				"autocomplete_edge_ngram": map[string]interface{}{
					"type":     "edge_ngram",
					"min_gram": 1,
					"max_gram": 15,
				},
				"place_synonyms": map[string]interface{}{
					"type":     "synonym",
					"synonyms": []string{},
				},
			},
			"analyzer": map[string]interface{}{
				"place_index_analyzer": map[string]interface{}{
					"type":      "custom",
					"tokenizer": "standard",
					"filter":    []string{"lowercase", "ascii_fold"},
				},
				"place_query_analyzer": map[string]interface{}{
					"type":      "custom",
					"tokenizer": "standard",
					"filter":    []string{"lowercase", "ascii_fold", "place_synonyms"},
				},
				"place_autocomplete_analyzer": map[string]interface{}{
					"type":      "custom",
					"tokenizer": "standard",
					"filter":    []string{"lowercase", "ascii_fold", "autocomplete_edge_ngram"},
				},
			},
		},
	},
	"mappings": map[string]interface{}{
		"dynamic_templates": []map[string]interface{}{
			{
				"name_languages": map[string]interface{}{
					"path_match": "name.*",
					"mapping": map[string]interface{}{
						"type":            "text",
						"analyzer":        "place_index_analyzer",
						"search_analyzer": "place_query_analyzer",
						"fields": map[string]interface{}{
							"autocomplete": map[string]interface{}{
								"type":            "text",
								"analyzer":        "place_autocomplete_analyzer",
								"search_analyzer": "place_query_analyzer",
							},
						},
					},
				},
			},
			{
				"parent_names": map[string]interface{}{
					"path_match": "parent.*.name_*",
					"mapping": map[string]interface{}{
						"type":     "text",
						"analyzer": "place_index_analyzer",
					},
				},
			},
		},
		"properties": map[string]interface{}{
			"id":           map[string]interface{}{"type": "keyword"},
			"layer":        map[string]interface{}{"type": "keyword"},
			"source_file":  map[string]interface{}{"type": "keyword"},
			"version":      map[string]interface{}{"type": "long"},
			"center_point": map[string]interface{}{"type": "geo_point"},
			"geometry":     map[string]interface{}{"type": "geo_shape"},
			"bounding_box": map[string]interface{}{"type": "float"},
			"categories":   map[string]interface{}{"type": "keyword"},
			"importance":   map[string]interface{}{"type": "float"},
		},
	},
}
