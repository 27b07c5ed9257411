package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const statusSchema = `{
	"type": "object",
	"required": ["type", "status", "message"],
	"properties": {
		"type": {"const": "status"},
		"status": {"type": "string"},
		"message": {"type": "string"}
	}
}`

const webhookSchema = `{
	"type": "object",
	"required": ["type", "meta", "method", "body"],
	"properties": {
		"type": {"const": "webhook"},
		"method": {"type": "string", "minLength": 1},
		"body": {"type": "string"},
		"query": {"type": "string"},
		"headers": {
			"type": "object",
			"additionalProperties": {"type": "array", "items": {"type": "string"}}
		},
		"meta": {
			"type": "object",
			"required": ["output_name", "output_destination"],
			"properties": {
				"output_name": {"type": "string"},
				"output_destination": {"type": "string", "minLength": 1},
				"bucked_id": {"type": "string"},
				"bucket_name": {"type": "string"},
				"input_id": {"type": "string"},
				"input_name": {"type": "string"}
			}
		}
	}
}`

const authSchema = `{
	"type": "object",
	"required": ["action", "key", "secret"],
	"properties": {
		"action": {"const": "auth"},
		"key": {"type": "string"},
		"secret": {"type": "string"}
	}
}`

const subscribeSchema = `{
	"type": "object",
	"required": ["action", "buckets"],
	"properties": {
		"action": {"const": "subscribe"},
		"buckets": {"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 1}
	}
}`

const pongSchema = `{
	"type": "object",
	"required": ["action"],
	"properties": {
		"action": {"const": "pong"}
	}
}`

// frameSchemas holds the compiled schema for every message kind, keyed by
// the value of its discriminator.
var frameSchemas = mustCompileSchemas(map[string]string{
	TypeStatus:      statusSchema,
	TypeWebhook:     webhookSchema,
	ActionAuth:      authSchema,
	ActionSubscribe: subscribeSchema,
	ActionPong:      pongSchema,
})

func mustCompileSchemas(sources map[string]string) map[string]*jsonschema.Schema {
	c := jsonschema.NewCompiler()
	for name, src := range sources {
		var doc any
		if err := json.Unmarshal([]byte(src), &doc); err != nil {
			panic(fmt.Sprintf("client: schema %s: %v", name, err))
		}
		if err := c.AddResource(schemaURL(name), doc); err != nil {
			panic(fmt.Sprintf("client: schema %s: %v", name, err))
		}
	}

	compiled := make(map[string]*jsonschema.Schema, len(sources))
	for name := range sources {
		compiled[name] = c.MustCompile(schemaURL(name))
	}
	return compiled
}

func schemaURL(name string) string {
	return "relay://schema/" + name + ".json"
}

// validateFrame checks text against the schema registered for kind.
func validateFrame(kind, text string) error {
	schema, ok := frameSchemas[kind]
	if !ok {
		return fmt.Errorf("no schema for %q", kind)
	}
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return err
	}
	return schema.Validate(inst)
}
