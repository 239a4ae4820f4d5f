// Package articles is the client for the remote article API: listing (live
// and soft-deleted), fetching, creating, updating and deleting articles, plus
// published-only lookups for the public preview. Calls never return Go
// errors for remote failures; they return a Result whose Error field carries
// the message to show the user.
//
// The backend contract is embedded as an OpenAPI 3 document (contract.yaml)
// and loaded with kin-openapi for payload checks and documentation.
package articles
