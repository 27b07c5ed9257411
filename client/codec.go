package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Encode serializes an outbound control message into a text frame.
func Encode(req Request) (string, error) {
	if req == nil {
		return "", errors.New("relay: encode nil request")
	}
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("relay: encode %T: %w", req, err)
	}
	return string(b), nil
}

// Decode parses an inbound text frame. The "type" field is read first and
// selects the shape the whole frame is then validated and decoded into.
//
// A frame with a type other than status or webhook yields an
// *UnknownEventError; callers decide whether that is fatal.
func Decode(text string) (Event, error) {
	fields, err := frameFields(text)
	if err != nil {
		return nil, err
	}
	var peek InboundEvent
	if raw, ok := fields["type"]; ok {
		if err := json.Unmarshal(raw, &peek.Type); err != nil {
			return nil, ErrMissingEventType
		}
	}
	if peek.Type == nil {
		return nil, ErrMissingEventType
	}

	switch *peek.Type {
	case TypeStatus:
		var evt StatusEvent
		if err := decodeFrame(TypeStatus, text, &evt); err != nil {
			return nil, err
		}
		return &evt, nil

	case TypeWebhook:
		var evt WebhookEvent
		if err := decodeFrame(TypeWebhook, text, &evt); err != nil {
			return nil, err
		}
		if err := validateWebhook(&evt); err != nil {
			return nil, err
		}
		return &evt, nil

	default:
		return nil, &UnknownEventError{Type: *peek.Type}
	}
}

// DecodeRequest parses an outbound control message, keyed by its action.
func DecodeRequest(text string) (Request, error) {
	fields, err := frameFields(text)
	if err != nil {
		return nil, err
	}
	var action string
	if raw, ok := fields["action"]; ok {
		if err := json.Unmarshal(raw, &action); err != nil {
			return nil, fmt.Errorf("%w: action: %v", ErrMalformedEvent, err)
		}
	}

	switch action {
	case ActionAuth:
		var req AuthRequest
		if err := decodeFrame(ActionAuth, text, &req); err != nil {
			return nil, err
		}
		return req, nil
	case ActionSubscribe:
		var req SubscribeRequest
		if err := decodeFrame(ActionSubscribe, text, &req); err != nil {
			return nil, err
		}
		return req, nil
	case ActionPong:
		var req PongReply
		if err := decodeFrame(ActionPong, text, &req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// frameFields splits a frame into its top level members, keyed exactly as
// they appear on the wire.
func frameFields(text string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return fields, nil
}

// Field names per frame kind. encoding/json matches struct fields without
// regard to case, so keys that only fold to one of these are rejected
// before the struct is filled.
var knownFields = map[string][]string{
	TypeStatus:      {"type", "status", "message"},
	TypeWebhook:     {"type", "meta", "method", "body", "headers", "query"},
	ActionAuth:      {"action", "key", "secret"},
	ActionSubscribe: {"action", "buckets"},
	ActionPong:      {"action"},
}

var knownMetaFields = []string{"output_name", "output_destination", "bucked_id", "bucket_name", "input_id", "input_name"}

func decodeFrame(kind, text string, v any) error {
	if err := validateFrame(kind, text); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
	}
	if err := checkFieldNames(kind, text); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
	}
	return nil
}

func checkFieldNames(kind, text string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return err
	}
	if err := exactKeys(fields, knownFields[kind]); err != nil {
		return err
	}
	if kind != TypeWebhook {
		return nil
	}

	var meta map[string]json.RawMessage
	if err := json.Unmarshal(fields["meta"], &meta); err != nil {
		return fmt.Errorf("meta: %w", err)
	}
	if err := exactKeys(meta, knownMetaFields); err != nil {
		return fmt.Errorf("meta: %w", err)
	}
	return nil
}

func exactKeys(fields map[string]json.RawMessage, names []string) error {
	for key := range fields {
		for _, name := range names {
			if key != name && strings.EqualFold(key, name) {
				return fmt.Errorf("field %q must be spelled %q", key, name)
			}
		}
	}
	return nil
}

func validateWebhook(evt *WebhookEvent) error {
	// HTTP methods share the token grammar of header field names.
	if !httpguts.ValidHeaderFieldName(evt.Method) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, evt.Method)
	}

	u, err := url.Parse(evt.Meta.OutputDestination)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidDestination, evt.Meta.OutputDestination)
	}
	return nil
}
