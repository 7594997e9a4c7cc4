// Package environment carries the deployment environment (development,
// staging, production) through configuration, request contexts and logs.
//
//	env := environment.Parse(cfg.AppEnv)
//	r.UseHTTP(environment.Middleware(env))
package environment
