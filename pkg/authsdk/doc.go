// Package authsdk contains the wire types for the sharedrop auth service
// plus a small typed HTTP client. The server handlers use the same types to
// write responses, so the two sides can never drift apart.
package authsdk
