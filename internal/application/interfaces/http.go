package interfaces

import "net/http"

// HTTPHandler is the transport surface exposed to the HTTP server.
type HTTPHandler interface {
	http.Handler
}
