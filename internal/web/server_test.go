package web

import "net/http"

// The request logger wraps every ResponseWriter; the wrapper must keep the
// upgrade and streaming capabilities of the writer underneath, or websocket
// handshakes fail with a 500.
var (
	_ http.Hijacker = (*statusRecorder)(nil)
	_ http.Flusher  = (*statusRecorder)(nil)
)
