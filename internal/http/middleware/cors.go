package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/mowgliph/pacta-api/internal/config"
	"go.uber.org/zap"
)

// CORS builds the CORS handler from config. A "*" entry reflects any
// origin. An empty origin list reflects any origin in development and
// denies all cross-origin requests everywhere else.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	dev := environment == "development" || environment == "local" || environment == ""

	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch {
	case hasWildcardOrigin(cfg.AllowedOrigins):
		if !dev {
			logger.Warn("CORS wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = reflectAnyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS origins configured",
			zap.Strings("origins", cfg.AllowedOrigins))
	case dev:
		options.AllowOriginFunc = reflectAnyOrigin
		logger.Info("CORS allowing all origins in development")
	default:
		// go-chi/cors treats an empty origin list as "*", so deny explicitly.
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func reflectAnyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}

func hasWildcardOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
