package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/edifact"
	"github.com/rezonia/edifact-generator/internal/model"
	"github.com/rezonia/edifact-generator/internal/output"
	"github.com/rezonia/edifact-generator/internal/validator"
)

// Config holds server configuration
type Config struct {
	Address      string        `env:"EDIFACT_ADDRESS" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"EDIFACT_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"EDIFACT_WRITE_TIMEOUT" envDefault:"30s"`
	Debug        bool          `env:"EDIFACT_DEBUG"`
}

// ConfigFromEnv builds a server config from EDIFACT_* environment variables.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	encoding config.Config
	router   *gin.Engine
	log      zerolog.Logger
}

// NewServer creates a new API server using the given encoding configuration.
func NewServer(cfg *Config, encoding config.Config, log zerolog.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:   cfg,
		encoding: encoding,
		router:   router,
		log:      log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/encode", s.handleEncode)
		v1.POST("/validate", s.handleValidate)
		v1.GET("/config", s.handleConfig)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleEncode(c *gin.Context) {
	var rec model.InvoiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON record: " + err.Error()})
		return
	}

	opts := []edifact.Option{}
	if c.Query("crlf") == "1" || c.Query("crlf") == "true" {
		opts = append(opts, edifact.WithLineEnding("\r\n"))
	}

	gen := edifact.New(&rec, s.encoding, opts...)
	text, err := gen.Encode()
	if err != nil {
		s.respondEncodeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+output.DefaultFilename(rec.InvoiceNumber)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (s *Server) handleValidate(c *gin.Context) {
	var rec model.InvoiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON record: " + err.Error()})
		return
	}

	err := validator.Schema(&rec)
	if err == nil {
		err = validator.BusinessRules(&rec, s.encoding)
	}
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			s.log.Info().
				Str("code", ve.Code).
				Interface("details", ve.Details).
				Msg("record failed validation")
			c.JSON(http.StatusOK, ValidationResponse{
				Valid:   false,
				Code:    ve.Code,
				Message: ve.Message,
				Details: ve.Details,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{Valid: true})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		Charsets:         s.encoding.Charsets,
		Currencies:       s.encoding.Currencies,
		DateFormats:      s.encoding.DateFormats,
		MaxPartyIDLen:    s.encoding.MaxPartyIDLen,
		MaxNameLen:       s.encoding.MaxNameLen,
		MaxItemIDLen:     s.encoding.MaxItemIDLen,
		MaxFreeTextLen:   s.encoding.MaxFreeTextLen,
		MaxSegmentLen:    s.encoding.MaxSegmentLen,
		DecimalPrecision: s.encoding.DecimalPrecision,
	})
}

func (s *Server) respondEncodeError(c *gin.Context, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		s.log.Info().
			Str("code", ve.Code).
			Interface("details", ve.Details).
			Msg("record failed validation")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   ve.Message,
			Code:    ve.Code,
			Details: ve.Details,
		})
		return
	}
	var ge *model.GenerationError
	if errors.As(err, &ge) {
		s.log.Error().
			Str("code", ge.Code).
			Interface("details", ge.Details).
			Msg("encoding failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   ge.Message,
			Code:    ge.Code,
			Details: ge.Details,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
