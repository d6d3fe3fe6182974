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

func schemaRef(name string) ObjectProperty {
	return ObjectProperty{Ref: "#/components/schemas/" + name}
}

func createSchemas() ObjectProperties {
	ans := make(ObjectProperties)
	ans["Rows"] = ObjectProperty{
		Type: "array",
		Items: &arrayItem{
			Type:        "object",
			Description: "A dataset row, fields are dataset specific",
		},
	}
	ans["CohortView"] = ObjectProperty{
		Type: "object",
		Properties: ObjectProperties{
			"mode": ObjectProperty{
				Type: "string",
				Enum: []any{"raw", "cohort"},
			},
			"path": ObjectProperty{
				Type: "string",
			},
			"data": ObjectProperty{
				Type:        "object",
				Description: "unwrapped payload of the selected dataset",
			},
		},
	}
	ans["CacheStats"] = ObjectProperty{
		Type: "object",
		Properties: ObjectProperties{
			"entries":     ObjectProperty{Type: "integer"},
			"inFlight":    ObjectProperty{Type: "integer"},
			"hits":        ObjectProperty{Type: "integer"},
			"misses":      ObjectProperty{Type: "integer"},
			"joined":      ObjectProperty{Type: "integer"},
			"fetchErrors": ObjectProperty{Type: "integer"},
		},
	}
	ans["FetchLoad"] = ObjectProperty{
		Type: "object",
		Properties: ObjectProperties{
			"numFetches":    ObjectProperty{Type: "integer"},
			"numFromStore":  ObjectProperty{Type: "integer"},
			"numErrors":     ObjectProperty{Type: "integer"},
			"totalTimeSecs": ObjectProperty{Type: "number"},
			"firstUpdate":   ObjectProperty{Type: "string"},
			"lastUpdate":    ObjectProperty{Type: "string"},
			"avgFetchSecs":  ObjectProperty{Type: "number"},
			"numChapters":   ObjectProperty{Type: "integer"},
		},
	}
	ans["Error"] = ObjectProperty{
		Type: "object",
		Properties: ObjectProperties{
			"error": ObjectProperty{Type: "string"},
		},
	}
	return ans
}
