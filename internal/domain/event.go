package domain

import (
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/dkeye/Sketch/internal/geometry"
)

type ShapeType string

const (
	ShapePencil     ShapeType = "pencil"
	ShapeLine       ShapeType = "line"
	ShapeRectangle  ShapeType = "rectangle"
	ShapeCircle     ShapeType = "circle"
	ShapeEraser     ShapeType = "eraser"
	ShapeCompletion ShapeType = "completion"
)

const MaxShapeTypeLen = 32

var (
	ErrShapeTypeEmpty    = errors.New("shape type empty")
	ErrShapeTypeInvalid  = errors.New("shape type invalid")
	ErrShapeTypeReserved = errors.New("shape type reserved")
)

var shapeTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Known reports whether the kind is one the canvas renders natively.
func (t ShapeType) Known() bool {
	switch t {
	case ShapePencil, ShapeLine, ShapeRectangle, ShapeCircle, ShapeEraser, ShapeCompletion:
		return true
	}
	return false
}

// ValidateClient checks a shape type sent by a client. Unknown kinds pass when they are
// short identifiers; completion is reserved for the server.
func (t ShapeType) ValidateClient() error {
	if t == "" {
		return ErrShapeTypeEmpty
	}
	if t == ShapeCompletion {
		return ErrShapeTypeReserved
	}
	if t.Known() {
		return nil
	}
	if len(t) > MaxShapeTypeLen || !shapeTypePattern.MatchString(string(t)) {
		return ErrShapeTypeInvalid
	}
	return nil
}

// DrawEvent is the unit that is persisted and broadcast.
type DrawEvent struct {
	RoomID    RoomID
	UserID    UserID
	ShapeType ShapeType
	ShapeData json.RawMessage
	Timestamp time.Time
}

// CompletionData is the shapeData of a synthetic completion event.
type CompletionData struct {
	Completion    json.RawMessage `json:"completion"`
	DetectedLabel string          `json:"detectedLabel"`
	Confidence    float64         `json:"confidence"`
}

// PencilData is the shapeData carried by a pencil stroke.
type PencilData struct {
	Path   geometry.Path `json:"path"`
	Stroke string        `json:"stroke,omitempty"`
}
