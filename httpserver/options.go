package httpserver

import (
	"fmt"

	"moviefav/movie"
	"moviefav/pkg/config"

	"go.uber.org/zap"
)

type Options func(s *Server) error

// WithConfig applies listen address, CORS origins and rate limit from cfg.
func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		if cfg.Port != 0 {
			s.Addr = fmt.Sprintf(":%d", cfg.Port)
		}
		s.AllowOrigins = cfg.Origins()
		s.RateLimit = cfg.RateLimit
		return nil
	}
}

func WithLogger(l *zap.SugaredLogger) Options {
	return func(s *Server) error {
		if l == nil {
			return fmt.Errorf("httpserver: nil logger")
		}
		s.Logger = l
		return nil
	}
}

func WithMovieService(svc movie.Service) Options {
	return func(s *Server) error {
		s.MovieService = svc
		return nil
	}
}
