// Package dto provides request and response types shared across the KeepUp
// API. These types are used by huma to generate OpenAPI documentation.
package dto

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}

// OKResponse acknowledges a delete.
type OKResponse struct {
	OK bool `json:"ok" doc:"Always true"`
}

// OKOutput wraps an OK response for huma.
type OKOutput struct {
	Body OKResponse
}

// IDParam is a path parameter for resource IDs.
type IDParam struct {
	ID int64 `path:"id" minimum:"1" doc:"Resource identifier"`
}
