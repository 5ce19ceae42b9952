// Package events delivers mentor notifications. The watermill sink publishes
// JSON payloads to a message.Publisher (gochannel in process, any watermill
// transport in production); payloads are masked before they leave the module.
package events
