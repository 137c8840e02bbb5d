// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Role Guard

Guard resolves the bearer token to a principal, loads its profile and
checks the role with Decide:

	guard := middleware.NewGuard(provider, profiles)
	mux.HandleFunc("GET /company/dashboard",
		middleware.WithLogging(guard.Require(models.RoleCompany, h.Company)))

Denials carry a redirect in both the Location header and the body:

  - no session: 401, /login
  - no profile: 403, /login
  - wrong role: 403, the principal's own portal

Handlers read the resolved values back with PrincipalFromContext,
ProfileFromContext and TokenFromContext.

# Rate Limiting

WithRateLimit answers 429 once a key exceeds limit hits in a window.
RateLimiter keeps windows in memory; RedisLimiter shares them across
instances and lets requests through when Redis is unreachable.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.FieldErrorResponse(w, "message", fields)

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Rate limit keys use a salted hash of it rather than the raw address.
*/
package middleware
