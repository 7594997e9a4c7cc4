// Package clientip resolves the address of the caller behind reverse proxies.
//
//	r.Use(clientip.Middleware())
//	ip := clientip.FromContext(ctx)
//
// The address feeds the request logger (LoggerExtractor) and per-client rate limits.
package clientip
