// Package ratelimit throttles requests with a token bucket.
//
// Buckets live in a Store: MemoryStore for a single instance, RedisStore when
// several instances share limits. Middleware plugs a Bucket into a route:
//
//	bucket, _ := ratelimit.NewBucket(ratelimit.NewMemoryStore(time.Minute), ratelimit.Config{
//		Capacity: 5, RefillRate: 1, RefillInterval: time.Minute,
//	})
//	route.Middleware = []handler.Middleware{ratelimit.Middleware(bucket, ratelimit.ByClientIP)}
package ratelimit
