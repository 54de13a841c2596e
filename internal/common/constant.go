package common

// RequestIDHeaderName carries the per-invocation id on outbound requests.
const RequestIDHeaderName = "X-Request-ID"

// UserAgent identifies the client to the server.
const UserAgent = "securematch-cli"
