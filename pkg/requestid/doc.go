// Package requestid assigns a correlation id to every HTTP request.
//
// The middleware accepts a client supplied X-Request-ID when it is well formed
// and generates a UUID otherwise. The id is stored in the request context,
// echoed in the response header, and picked up by LoggerExtractor so every
// log record of the request carries it.
package requestid
