package httpapi

import (
	"fmt"
	"io"

	"github.com/gorilla/handlers"
)

// logFormatter renders one access-log line per request: method, path,
// remote address, status code and response size in bytes.
func logFormatter(w io.Writer, params handlers.LogFormatterParams) {
	fmt.Fprintf(w, "%s %s %s -> %d (%d bytes)\n",
		params.Request.Method,
		params.Request.URL.Path,
		params.Request.RemoteAddr,
		params.StatusCode,
		params.Size,
	)
}
