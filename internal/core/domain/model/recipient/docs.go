// Package recipient models the parties notifications are addressed to.
//
// Recipients form a tagged variant (Driver | Customer | AdminBroadcast)
// identified by a Ref so the fan-out can be written once against the
// variant instead of duplicated per recipient kind. Drivers and customers
// carry optional push tokens used by the delivery adapter; the admin
// broadcast is a global in-app log with no token.
package recipient
