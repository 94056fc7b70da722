// Package httpapi is the HTTP boundary: gin routes per entity, the request
// context middleware seeding ambient request and user identifiers, traffic
// logging, and translation of the domain error taxonomy to status codes.
package httpapi
