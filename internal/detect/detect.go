// Package detect classifies freehand strokes as canonical shapes and synthesizes an
// idealized completion for the winning label. Everything here is deterministic and
// free of side effects: the same path always yields the same Result.
package detect

import (
	"github.com/dkeye/Sketch/internal/geometry"
)

type Label string

const (
	LabelLine      Label = "line"
	LabelCircle    Label = "circle"
	LabelRectangle Label = "rectangle"
	LabelTriangle  Label = "triangle"
	LabelStar      Label = "star"
	LabelApple     Label = "apple"
	LabelUnknown   Label = "unknown"
)

// AdmissionThreshold is the score a family must exceed to become a candidate.
// It is independent from the pipeline's completion threshold.
const AdmissionThreshold = 0.5

const (
	DefaultResamplePoints = 64
	DefaultCanvasSize     = 64.0
	DefaultStroke         = "#000"
)

// Result is the outcome of classifying one stroke. Completion is nil iff Label is unknown.
type Result struct {
	Label      Label                `json:"label"`
	Confidence float64              `json:"confidence"`
	Bounds     geometry.BoundingBox `json:"bounds"`
	Completion CompletionShape      `json:"completion,omitempty"`
}

// Detector is what the event pipeline needs from a classifier.
type Detector interface {
	Classify(path geometry.Path) Result
}

type Config struct {
	ResamplePoints int
	CanvasSize     float64
	Stroke         string
}

func DefaultConfig() Config {
	return Config{
		ResamplePoints: DefaultResamplePoints,
		CanvasSize:     DefaultCanvasSize,
		Stroke:         DefaultStroke,
	}
}

type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.ResamplePoints < 8 {
		cfg.ResamplePoints = DefaultResamplePoints
	}
	if cfg.CanvasSize <= 0 {
		cfg.CanvasSize = DefaultCanvasSize
	}
	if cfg.Stroke == "" {
		cfg.Stroke = DefaultStroke
	}
	return &Classifier{cfg: cfg}
}

type scorer struct {
	label Label
	score func(c *Classifier, p geometry.Path) float64
}

// Order matters: on equal confidence the earlier family wins.
var scorers = []scorer{
	{LabelLine, (*Classifier).scoreLine},
	{LabelCircle, (*Classifier).scoreCircle},
	{LabelRectangle, (*Classifier).scoreRectangle},
	{LabelTriangle, (*Classifier).scoreTriangle},
	{LabelStar, (*Classifier).scoreStar},
	{LabelApple, (*Classifier).scoreApple},
}

// Classify scores path against every shape family and returns the best candidate.
func (c *Classifier) Classify(path geometry.Path) Result {
	bounds := geometry.Bounds(path)
	unknown := Result{Label: LabelUnknown, Bounds: bounds}
	if len(path) < 3 || !geometry.Finite(path) {
		return unknown
	}

	norm := geometry.Normalize(path, c.cfg.ResamplePoints, c.cfg.CanvasSize)

	best := unknown
	for _, s := range scorers {
		conf := s.score(c, norm)
		if conf <= AdmissionThreshold {
			continue
		}
		if best.Label == LabelUnknown || conf > best.Confidence {
			best = Result{Label: s.label, Confidence: conf, Bounds: bounds}
		}
	}
	if best.Label == LabelUnknown {
		return unknown
	}
	best.Completion = Complete(best.Label, bounds, c.cfg.Stroke)
	return best
}

// Scores exposes every family's raw score for diagnostics (shapectl classify -v).
func (c *Classifier) Scores(path geometry.Path) map[Label]float64 {
	out := make(map[Label]float64, len(scorers))
	if len(path) < 3 || !geometry.Finite(path) {
		return out
	}
	norm := geometry.Normalize(path, c.cfg.ResamplePoints, c.cfg.CanvasSize)
	for _, s := range scorers {
		out[s.label] = s.score(c, norm)
	}
	return out
}
