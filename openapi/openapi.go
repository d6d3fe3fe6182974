// Copyright 2025 The PATENTWORLD Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openapi

import "patentworld/transform"

func pathParam() Parameter {
	return Parameter{
		Name:        "path",
		In:          "path",
		Description: "A data path relative to the data root, e.g. `chapter7/gov_funded_per_year.json`",
		Required:    true,
		Schema: ParamSchema{
			Type: "string",
		},
	}
}

func memberParam() Parameter {
	return Parameter{
		Name:        "member",
		In:          "query",
		Description: "If the payload is an object, rows are read from this member",
		Required:    false,
		Schema: ParamSchema{
			Type: "string",
		},
	}
}

func queryParam(name, desc string, required bool) Parameter {
	return Parameter{
		Name:        name,
		In:          "query",
		Description: desc,
		Required:    required,
		Schema: ParamSchema{
			Type: "string",
		},
	}
}

func jsonResponses(schema string) MethodResponses {
	return MethodResponses{
		200: {
			Description: "OK",
			Content: map[string]MethodResponseContent{
				"application/json": {Schema: schemaRef(schema)},
			},
		},
		400: {
			Description: "Invalid arguments",
			Content: map[string]MethodResponseContent{
				"application/json": {Schema: schemaRef("Error")},
			},
		},
		404: {
			Description: "Dataset not found",
		},
		502: {
			Description: "Data origin failed",
		},
	}
}

func NewResponse(ver, url string) *APIResponse {
	paths := make(map[string]Methods)

	paths["/dataset/{path}"] = Methods{
		Get: &Method{
			Description: "Returns a dataset payload with a possible `{\"data\": ...}` envelope removed.",
			OperationID: "Dataset",
			Parameters:  []Parameter{pathParam()},
			Responses:   jsonResponses("Rows"),
		},
	}

	paths["/views/pivot/{path}"] = Methods{
		Get: &Method{
			Description: "Creates one row per key value with one column per category. Categories missing for a key are omitted (not zero).",
			OperationID: "Pivot",
			Parameters: []Parameter{
				pathParam(),
				queryParam("key", "A key field, `year` by default", false),
				queryParam("category", "A category field, e.g. `patent_type`", true),
				queryParam("value", "A value field, e.g. `count`", true),
				memberParam(),
			},
			Responses: jsonResponses("Rows"),
		},
	}

	paths["/views/exposure/{path}"] = Methods{
		Get: &Method{
			Description: "Divides citation counts by the number of years between the row year and the reference year (at least 1).",
			OperationID: "Exposure",
			Parameters: []Parameter{
				pathParam(),
				queryParam("fields", "A comma separated list of fields to normalize", true),
				queryParam("yearField", "A year field, `year` by default", false),
				{
					Name:        "referenceYear",
					In:          "query",
					Description: "A reference year; server configured year by default",
					Schema:      ParamSchema{Type: "integer"},
				},
				memberParam(),
			},
			Responses: jsonResponses("Rows"),
		},
	}

	paths["/views/threshold/{path}"] = Methods{
		Get: &Method{
			Description: "Keeps rows whose threshold field equals the selected level.",
			OperationID: "Threshold",
			Parameters: []Parameter{
				pathParam(),
				queryParam("field", "A threshold field, `threshold` by default", false),
				{
					Name:        "level",
					In:          "query",
					Description: "A threshold level, the first one is the default",
					Schema: ParamSchema{
						Type: "string",
						Enum: transform.DefaultThresholdLevels,
					},
				},
				memberParam(),
			},
			Responses: jsonResponses("Rows"),
		},
	}

	paths["/views/stacked/{path}"] = Methods{
		Get: &Method{
			Description: "Converts series values to their percentage share of the row total. Rows with zero total are left as they are.",
			OperationID: "Stacked",
			Parameters: []Parameter{
				pathParam(),
				queryParam("keys", "A comma separated list of series fields", true),
				memberParam(),
			},
			Responses: jsonResponses("Rows"),
		},
	}

	paths["/views/cohort"] = Methods{
		Get: &Method{
			Description: "Selects the raw dataset, its precomputed cohort-normalized variant or raw counts normalized by exposure years.",
			OperationID: "Cohort",
			Parameters: []Parameter{
				queryParam("raw", "A data path of raw counts", true),
				queryParam("cohort", "A data path of cohort-normalized values (required unless mode is exposure)", false),
				{
					Name:        "mode",
					In:          "query",
					Description: "Normalization mode",
					Schema:      ParamSchema{Type: "string", Enum: []string{"raw", "cohort", "exposure"}},
				},
				queryParam("fields", "Comma separated fields to normalize (exposure mode)", false),
				{
					Name:        "normalized",
					In:          "query",
					Description: "Select the cohort-normalized variant (used if mode is not set)",
					Schema:      ParamSchema{Type: "boolean"},
				},
			},
			Responses: jsonResponses("CohortView"),
		},
	}

	paths["/cache"] = Methods{
		Get: &Method{
			Description: "Shows statistics of the in-memory dataset cache.",
			OperationID: "CacheStats",
			Parameters:  []Parameter{},
			Responses:   jsonResponses("CacheStats"),
		},
	}

	paths["/monitoring/fetches"] = Methods{
		Get: &Method{
			Description: "Shows statistics of dataset fetches.",
			OperationID: "FetchLoad",
			Parameters: []Parameter{
				{
					Name:        "span",
					In:          "query",
					Description: "A time span of the statistics",
					Schema: ParamSchema{
						Type: "string",
						Enum: []string{"recent", "total"},
					},
				},
			},
			Responses: jsonResponses("FetchLoad"),
		},
	}

	return &APIResponse{
		OpenAPI: "3.1.0",
		Info: Info{
			Title:       "PATENTWORLD data API",
			Description: "Chapter datasets about US patent statistics and views derived from them for charts.",
			Version:     ver,
		},
		Servers: []Server{
			{URL: url},
		},
		Paths: paths,
		Components: Components{
			Schemas: createSchemas(),
		},
	}
}
