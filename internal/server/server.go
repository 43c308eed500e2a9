// Package server exposes the scorer and ranker over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/forPelevin/cutline/internal/domain/highlights"
	"github.com/forPelevin/cutline/internal/domain/liquidity"
	"github.com/forPelevin/cutline/internal/types"
)

type Server struct {
	app      *fiber.App
	scorer   *liquidity.Scorer
	log      logrus.FieldLogger
	validate *validator.Validate
}

func New(scorer *liquidity.Scorer, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		scorer:   scorer,
		log:      log,
		validate: validator.New(),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "cutline",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(RequestLogger(log))

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	v1 := s.app.Group("/api/v1")
	v1.Post("/score", s.handleScore)
	v1.Post("/rank", s.handleRank)
	return s
}

func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- s.app.Listen(addr) }()
	s.log.WithField("addr", addr).Info("listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errc
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return respondError(c, code, err.Error())
}

func respondError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

func respondJSON(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s (%s)", msg, fe.Param())
		}
		parts = append(parts, msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// bind parses and validates a JSON body. Failures come back as 400
// fiber errors for errorHandler to render.
func (s *Server) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
	}
	if err := s.validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return nil
}

type scoreRequest struct {
	Text     string `json:"text" validate:"required"`
	Duration int    `json:"duration" validate:"gte=0"`
}

func (s *Server) handleScore(c *fiber.Ctx) error {
	req := new(scoreRequest)
	if err := s.bind(c, req); err != nil {
		return err
	}
	return respondJSON(c, s.scorer.Breakdown(req.Text, req.Duration))
}

type rankRequest struct {
	Text           string  `json:"text" validate:"required"`
	WindowSeconds  float64 `json:"window_seconds" validate:"omitempty,gt=0"`
	StepSeconds    float64 `json:"step_seconds" validate:"omitempty,gt=0"`
	WordsPerSecond float64 `json:"words_per_second" validate:"omitempty,gt=0"`
	TopN           int     `json:"top_n" validate:"omitempty,gte=1,lte=100"`
}

type rankResponse struct {
	Segments int                   `json:"segments"`
	Spikes   []types.ScoredSegment `json:"spikes"`
}

func (s *Server) handleRank(c *fiber.Ctx) error {
	req := new(rankRequest)
	if err := s.bind(c, req); err != nil {
		return err
	}

	w := highlights.DefaultWindowing()
	if req.WindowSeconds > 0 {
		w.WindowSeconds = req.WindowSeconds
	}
	if req.StepSeconds > 0 {
		w.StepSeconds = req.StepSeconds
	}
	if req.WordsPerSecond > 0 {
		w.WordsPerSecond = req.WordsPerSecond
	}
	topN := req.TopN
	if topN == 0 {
		topN = highlights.DefaultTopN
	}

	segs, err := highlights.BuildSegments(req.Text, w)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	ranked := highlights.Rank(segs, s.scorer)
	return respondJSON(c, rankResponse{
		Segments: len(segs),
		Spikes:   highlights.Top(ranked, topN),
	})
}
