package extraction

// entrySchema is the JSON Schema (draft-07) every per-gene entry must satisfy.
// "associated" and "has_interactions" also accept strings, which are coerced
// ("true", "yes", "1"); null evidence reads as empty.
const entrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["symbol", "diseases", "interactions"],
  "properties": {
    "symbol": {"type": "string", "minLength": 1},
    "diseases": {
      "type": "object",
      "required": ["cancer", "heart_disease", "diabetes", "dementia"],
      "properties": {
        "cancer":        {"$ref": "#/definitions/claim"},
        "heart_disease": {"$ref": "#/definitions/claim"},
        "diabetes":      {"$ref": "#/definitions/claim"},
        "dementia":      {"$ref": "#/definitions/claim"}
      }
    },
    "interactions": {
      "type": "object",
      "properties": {
        "has_interactions": {"type": ["boolean", "string", "null"]},
        "partners": {"type": ["array", "null"], "items": {"type": "string"}},
        "evidence": {"type": ["string", "null"]}
      }
    }
  },
  "definitions": {
    "claim": {
      "type": "object",
      "required": ["associated", "evidence"],
      "properties": {
        "associated": {"type": ["boolean", "string", "null"]},
        "evidence": {"type": ["string", "null"]}
      }
    }
  }
}`
