// internal/api/schema.go
package api

import "github.com/santhosh-tekuri/jsonschema/v5"

const sendSchemaJSON = `{
  "type": "object",
  "properties": {
    "text":        {"type": "string"},
    "displayName": {"type": "string"},
    "channelSlug": {"type": "string"},
    "username":    {"type": "string"},
    "channel":     {"type": "string"}
  }
}`

var sendSchema = jsonschema.MustCompileString("send.schema.json", sendSchemaJSON)
