// Package activity keeps a durable audit trail of mentor notifications. The
// Repository is itself a types.EventSink so it can sit next to the bus sink
// in an events.FanOut; payloads are masked before they are stored.
package activity
