// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// metadataSchema is the canonical metadata schema. It is strict: unknown
// top-level or nested properties are rejected so that mapper bugs surface
// as MappingErrors instead of silently dropped fields.
const metadataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["titles"],
  "properties": {
    "titles": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["title"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "title_type": {"enum": ["Subtitle", "AlternativeTitle", "TranslatedTitle", "Other"]}
        }
      }
    },
    "creators": {"$ref": "#/$defs/people"},
    "contributors": {"$ref": "#/$defs/people"},
    "publisher": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name"],
      "properties": {
        "name": {"type": "string"},
        "publisher_identifier": {"type": "string"},
        "publisher_identifier_scheme": {"type": "string"}
      }
    },
    "publication_year": {"type": "string", "pattern": "^[0-9]{4}$"},
    "subjects": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["subject"],
        "properties": {
          "subject": {"type": "string"},
          "subject_scheme": {"type": "string"},
          "value_uri": {"type": "string"}
        }
      }
    },
    "descriptions": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["description"],
        "properties": {
          "description": {"type": "string"},
          "description_type": {"type": "string"}
        }
      }
    },
    "dates": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["date"],
        "properties": {
          "date": {"type": "string"},
          "date_type": {"type": "string"},
          "date_information": {"type": "string"}
        }
      }
    },
    "language": {"type": "string"},
    "version": {"type": "string"},
    "identifiers": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["identifier"],
        "properties": {
          "identifier": {"type": "string"},
          "identifier_type": {"type": "string"}
        }
      }
    },
    "related_identifiers": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["related_identifier"],
        "properties": {
          "related_identifier": {"type": "string"},
          "relation_type": {"type": "string"},
          "resource_type_general": {"type": "string"},
          "related_identifier_type": {"type": "string"}
        }
      }
    },
    "sizes": {"type": "array", "items": {"type": "string"}},
    "formats": {"type": "array", "items": {"type": "string"}},
    "rights_list": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "rights": {"type": "string"},
          "rights_uri": {"type": "string"},
          "rights_identifier": {"type": "string"},
          "rights_identifier_scheme": {"type": "string"}
        }
      }
    },
    "funding_references": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "funder_name": {"type": "string"},
          "funder_identifier": {"type": "string"},
          "funder_identifier_type": {"type": "string"},
          "award_number": {"type": "string"},
          "award_uri": {"type": "string"},
          "award_title": {"type": "string"}
        }
      }
    },
    "geo_locations": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["geo_location_place"],
        "properties": {
          "geo_location_place": {"type": "string"}
        }
      }
    },
    "variables": {"type": "array", "items": {"type": "string"}},
    "url": {"type": "string"},
    "access": {"enum": ["Public", "Restricted"]},
    "provider": {"type": "string"}
  },
  "$defs": {
    "people": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "name_type": {"enum": ["Personal", "Organizational"]},
          "contributor_type": {"type": "string"},
          "given_name": {"type": "string"},
          "family_name": {"type": "string"},
          "name_identifiers": {
            "type": "array",
            "items": {
              "type": "object",
              "additionalProperties": false,
              "required": ["name_identifier"],
              "properties": {
                "name_identifier": {"type": "string"},
                "name_identifier_scheme": {"type": "string"},
                "scheme_uri": {"type": "string"}
              }
            }
          },
          "affiliation": {
            "type": "array",
            "items": {
              "type": "object",
              "additionalProperties": false,
              "required": ["name"],
              "properties": {
                "name": {"type": "string"},
                "affiliation_identifier": {"type": "string"},
                "affiliation_identifier_scheme": {"type": "string"},
                "scheme_uri": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var (
	schema  = mustCompileSchema()
	printer = message.NewPrinter(language.English)
)

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(metadataSchema))
	if err != nil {
		panic(fmt.Sprintf("parsing metadata schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("metadata.schema.json", doc); err != nil {
		panic(fmt.Sprintf("adding metadata schema: %v", err))
	}
	sch, err := c.Compile("metadata.schema.json")
	if err != nil {
		panic(fmt.Sprintf("compiling metadata schema: %v", err))
	}
	return sch
}

// Validate checks canonical metadata against the schema and returns the
// list of violations, empty when valid.
func Validate(meta *types.Metadata) []string {
	raw, err := json.Marshal(meta)
	if err != nil {
		return []string{fmt.Sprintf("serializing metadata: %v", err)}
	}
	return validateRaw(raw)
}

// ValidateJSON checks an already-serialized metadata document against the
// schema. It is used to vet locally curated records before they enter the
// store.
func ValidateJSON(raw json.RawMessage) error {
	if violations := validateRaw(raw); len(violations) > 0 {
		return errors.New(strings.Join(violations, ", "))
	}
	return nil
}

func validateRaw(raw json.RawMessage) []string {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return []string{fmt.Sprintf("parsing metadata: %v", err)}
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	var violations []string
	collectViolations(verr, &violations)
	return violations
}

func collectViolations(err *jsonschema.ValidationError, out *[]string) {
	if len(err.Causes) == 0 {
		loc := "/" + strings.Join(err.InstanceLocation, "/")
		*out = append(*out, fmt.Sprintf("at '%s': %s", loc, err.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}
