package patch

import (
	"errors"
	"fmt"

	"github.com/averycrespi/tabserver/pkg/types"
)

// ErrRange matches every *RangeError via errors.Is
var ErrRange = errors.New("range out of bounds")

// Bound names the validation rule a position violated
type Bound string

const (
	BoundLine      Bound = "line"
	BoundCharacter Bound = "character"
	BoundSplit     Bound = "split"
	BoundOrder     Bound = "order"
)

// RangeError reports an edit range that cannot be resolved against a document
type RangeError struct {
	Endpoint string // "start" or "end"
	Bound    Bound
	Position types.Position
	Limit    int

	// End is the end position a start position was compared against (BoundOrder only)
	End types.Position
}

func (e *RangeError) Error() string {
	pos := fmt.Sprintf("%s position %d:%d", e.Endpoint, e.Position.Line, e.Position.Character)
	switch e.Bound {
	case BoundLine:
		return fmt.Sprintf("%s: line %d out of range [0, %d)", pos, e.Position.Line, e.Limit)
	case BoundCharacter:
		return fmt.Sprintf("%s: character %d out of range [0, %d]", pos, e.Position.Character, e.Limit)
	case BoundSplit:
		return fmt.Sprintf("%s: character %d falls inside a multi-unit character", pos, e.Position.Character)
	case BoundOrder:
		return fmt.Sprintf("%s comes after end position %d:%d", pos, e.End.Line, e.End.Character)
	default:
		return pos + ": out of range"
	}
}

// Is lets errors.Is(err, ErrRange) match
func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}
