// Package command exposes go-command compatible handlers for the mentor
// directory write side: profile edits, bans, account sign-in and category
// moderation. Commands are wired by the service layer and can be invoked by
// any transport.
package command
