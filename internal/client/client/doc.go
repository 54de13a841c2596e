// Package client is the transport boundary between the CLI and the
// searchable-encryption API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the services layer.
// HTTPClient implements it over JSON/HTTP against these endpoints:
//
//	POST   /api/search/internal/        {<field>: <keyword>}
//	POST   /api/search/external/        {auditor_id, keyword_hash, signature}
//	GET    /api/metrics/internal/
//	POST   /api/auditor/create/         {name}
//	DELETE /api/auditor/{id}/delete/
//
// Successful responses use the envelope {status, data, meta}; failures use
// {status: "error", error: {code, message}}.
//
// # Error Handling
//
//   - ErrUnavailable: the server could not be reached, timed out, or failed
//     with a 5xx status and no error envelope.
//   - *ApplicationError: the server answered with an error envelope. Code
//     falls back to models.UnknownErrorCode when the envelope has none.
//   - ErrUnknown: anything else the client cannot interpret.
//
// The client never retries. Resubmission is the caller's decision.
package client
