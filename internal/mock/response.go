package mock

import (
	"net/http"
)

// Content types produced by endpoints.
const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html"
	ContentTypeText = "text/plain"
)

// Response is what an endpoint handler produces. The HTTP layer renders it.
type Response struct {
	Status      int
	ContentType string
	// Body is a JSON-encodable value for ContentTypeJSON and a string otherwise.
	Body   any
	Header http.Header
	// Abandoned is set when the client went away before the handler finished.
	Abandoned bool
}

// JSON builds a JSON response.
func JSON(status int, body any) Response {
	return Response{Status: status, ContentType: ContentTypeJSON, Body: body}
}

// HTML wraps body in the mock page skeleton.
func HTML(status int, body string) Response {
	page := "<!DOCTYPE html><html><head><title>Mock Server</title></head><body>" + body + "</body></html>"
	return Response{Status: status, ContentType: ContentTypeHTML, Body: page}
}

// Text builds a plain text response.
func Text(status int, body string) Response {
	return Response{Status: status, ContentType: ContentTypeText, Body: body}
}

func abandoned() Response {
	return Response{Abandoned: true}
}

// WithHeader returns a copy of r carrying an extra header.
func (r Response) WithHeader(key, value string) Response {
	h := make(http.Header, len(r.Header)+1)
	for k, v := range r.Header {
		h[k] = append([]string(nil), v...)
	}
	h.Set(key, value)
	r.Header = h
	return r
}
