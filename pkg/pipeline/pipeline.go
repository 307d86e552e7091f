// Package pipeline provides the core generate → analyze → render pipeline
// for causemap.
//
// This package implements the orchestration shared by the CLI and the HTTP
// API. By centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three operations over a session store:
//
//  1. Generate: synthesize a random dependency map and open a session for it
//  2. Analyze: rank root-cause candidates for an ordered issue-node list
//  3. Render: produce DOT, SVG, or PNG output with issue highlighting
//
// Each operation can be run independently; analyze and render load the
// session's graph snapshot, so a concurrent generate can never corrupt a
// running analysis - it only replaces which snapshot the next call sees.
//
// # Usage
//
// Create a Runner and execute operations:
//
//	runner := pipeline.NewRunner(store, nil, logger)
//	sess, err := runner.Generate(ctx, pipeline.GenerateOptions{
//	    Nodes: 15,
//	    Depth: 2,
//	    Seed:  123,
//	})
//	candidates, err := runner.Analyze(ctx, sess.ID, []string{"C", "F", "E"})
//	svg, err := runner.Render(ctx, sess.ID, nil, pipeline.FormatSVG)
package pipeline

import (
	"time"

	"github.com/causemap/causemap/pkg/errors"
)

// Render output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Default synthesis parameters, shared by CLI flags and API defaults.
const (
	// DefaultNodes matches the original service-map default of 15 services.
	DefaultNodes = 15

	// DefaultDepth keeps edges local: a service only connects to services
	// within two positions of it in generation order.
	DefaultDepth = 2

	// DefaultSeed makes fresh installs reproducible out of the box.
	DefaultSeed = 123
)

// DefaultRenderTTL bounds how long rendered artifacts stay cached.
const DefaultRenderTTL = 24 * time.Hour

// Formats lists all supported render formats.
func Formats() []string {
	return []string{FormatDOT, FormatSVG, FormatPNG}
}

// ValidateFormat checks that format names a supported render output.
func ValidateFormat(format string) error {
	switch format {
	case FormatDOT, FormatSVG, FormatPNG:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want dot, svg, or png)", format)
	}
}

// GenerateOptions configures one synthesize call.
type GenerateOptions struct {
	Nodes int           // node count, [2, 26]
	Depth int           // maximum edge span, >= 1
	Seed  uint64        // random seed
	TTL   time.Duration // session lifetime; zero uses session.DefaultTTL
}
