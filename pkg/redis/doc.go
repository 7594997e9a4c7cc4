// Package redis connects to a Redis server with retries and exposes a
// readiness probe for it.
//
// Configuration is read from the environment through Config:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Healthcheck wraps Ping into a func(context.Context) error suitable for the
// httpserver readiness endpoint.
//
// Errors wrap the underlying go-redis error with errors.Join, so both the
// sentinel and the cause match errors.Is.
package redis
