package conn

// State is the per-connection state read by every Conn operation. It is owned by the session driving the
// connection, which passes it explicitly to each call and flips Compression once the server negotiates it.
type State struct {
	// Compression is true once frames in both directions are compressed.
	Compression bool
}
