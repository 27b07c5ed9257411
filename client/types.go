package client

import "net/http"

// Outbound actions understood by the relay.
const (
	ActionAuth      = "auth"
	ActionSubscribe = "subscribe"
	ActionPong      = "pong"
)

// Inbound event types.
const (
	TypeStatus  = "status"
	TypeWebhook = "webhook"
)

// Status values the client reacts to. Anything else is ignored.
const (
	StatusAuthenticated = "authenticated"
	StatusSubscribed    = "subscribed"
	StatusUnauthorized  = "unauthorized"
	StatusPing          = "ping"
)

// BucketsSize is the number of buckets a single subscription names.
const BucketsSize = 1

type Credentials struct {
	Key    string
	Secret string
}

// Request is an outbound control message. The set of implementations is closed.
type Request interface {
	action() string
}

type AuthRequest struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

type SubscribeRequest struct {
	Action  string              `json:"action"`
	Buckets [BucketsSize]string `json:"buckets"`
}

type PongReply struct {
	Action string `json:"action"`
}

func (AuthRequest) action() string      { return ActionAuth }
func (SubscribeRequest) action() string { return ActionSubscribe }
func (PongReply) action() string        { return ActionPong }

func NewAuthRequest(c Credentials) AuthRequest {
	return AuthRequest{Action: ActionAuth, Key: c.Key, Secret: c.Secret}
}

func NewSubscribeRequest(bucket string) SubscribeRequest {
	return SubscribeRequest{Action: ActionSubscribe, Buckets: [BucketsSize]string{bucket}}
}

func NewPongReply() PongReply {
	return PongReply{Action: ActionPong}
}

// Event is a decoded inbound frame, either *StatusEvent or *WebhookEvent.
type Event interface {
	EventType() string
}

// InboundEvent is only used to peek at the discriminator.
type InboundEvent struct {
	Type *string `json:"type"`
}

// StatusEvent carries session level notifications such as authenticated,
// subscribed or ping.
//
//	{"type": "status", "status": "subscribed", "message": "subscribed to buckets: my-bucket"}
type StatusEvent struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *StatusEvent) EventType() string { return TypeStatus }

// WebhookEvent describes one request received by the relay that has to be
// replayed against Meta.OutputDestination.
type WebhookEvent struct {
	Type   string      `json:"type"`
	Meta   WebhookMeta `json:"meta"`
	Method string      `json:"method"`
	Body   string      `json:"body"`

	// Headers and Query describe the original request. They are decoded for
	// logging only and are not replayed.
	Headers http.Header `json:"headers,omitempty"`
	Query   string      `json:"query,omitempty"`
}

func (e *WebhookEvent) EventType() string { return TypeWebhook }

type WebhookMeta struct {
	OutputName        string `json:"output_name"`
	OutputDestination string `json:"output_destination"`

	// The relay spells this key "bucked_id".
	BucketID   string `json:"bucked_id,omitempty"`
	BucketName string `json:"bucket_name,omitempty"`
	InputID    string `json:"input_id,omitempty"`
	InputName  string `json:"input_name,omitempty"`
}
