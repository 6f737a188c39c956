// Package remote implements services.UserSource against the backend, over
// gRPC or the JSON HTTP API. Both clients keep the access token issued at
// login and send it with every later call.
package remote
