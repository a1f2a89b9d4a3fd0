package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/quire/internal/failure"
)

// Converter turns markdown text into HTML.
type Converter interface {
	Name() string
	Convert(text string) (string, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc struct {
	ID string
	Fn func(text string) (string, error)
}

// Name implements Converter.
func (f ConverterFunc) Name() string { return f.ID }

// Convert implements Converter.
func (f ConverterFunc) Convert(text string) (string, error) { return f.Fn(text) }

// Chain is an ordered sequence of converters. Each stage runs only if every
// earlier stage failed.
type Chain struct {
	stages []Converter
	logger *slog.Logger
}

// NewChain creates a chain from stages in priority order.
// The stages slice is copied so later mutation cannot reorder the chain.
func NewChain(logger *slog.Logger, stages ...Converter) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		stages: append([]Converter(nil), stages...),
		logger: logger,
	}
}

// Stages returns the stage names in order.
func (c *Chain) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name()
	}
	return names
}

// Convert runs the stages in order and returns the first successful output
// together with the index of the stage that produced it.
//
// If every stage fails, the returned error is a CONVERT_FAILED failure
// joining each stage's error.
func (c *Chain) Convert(text string) (string, int, error) {
	var errs []error
	for i, stage := range c.stages {
		html, err := safeConvert(stage, text)
		if err == nil {
			return html, i, nil
		}
		c.logger.Warn("converter stage failed",
			"stage", stage.Name(),
			"index", i,
			"error", err,
		)
		errs = append(errs, err)
	}
	return "", -1, failure.Convert("all converter stages failed", errors.Join(errs...))
}

// safeConvert invokes a stage, turning a panic into an error.
func safeConvert(c Converter, text string) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", c.Name(), r)
		}
	}()
	html, err = c.Convert(text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.Name(), err)
	}
	return html, nil
}
