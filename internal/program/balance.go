package program

import (
	"errors"
	"fmt"
)

// ErrUnbalanced is wrapped by every BalanceError.
var ErrUnbalanced = errors.New("unbalanced loop brackets")

// BalanceError describes the first structural problem found in a program.
type BalanceError struct {
	// Position is the index of a LoopEnd with no open LoopStart, or -1 when
	// the program ends with loops still open.
	Position int
	// Unclosed is the number of LoopStart instructions left open at the end.
	Unclosed int
}

func (e *BalanceError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s: unmatched ']' at instruction %d", ErrUnbalanced, e.Position)
	}
	return fmt.Sprintf("%s: %d unclosed '['", ErrUnbalanced, e.Unclosed)
}

func (e *BalanceError) Unwrap() error {
	return ErrUnbalanced
}

// IsBalanced reports whether every LoopEnd closes an earlier LoopStart and
// no LoopStart is left open.
func IsBalanced(p *Program) bool {
	depth := 0
	for _, ins := range p.instructions {
		switch ins {
		case LoopStart:
			depth++
		case LoopEnd:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// Validate is IsBalanced with a positioned error.
func Validate(p *Program) error {
	depth := 0
	for i, ins := range p.instructions {
		switch ins {
		case LoopStart:
			depth++
		case LoopEnd:
			depth--
			if depth < 0 {
				return &BalanceError{Position: i}
			}
		}
	}
	if depth != 0 {
		return &BalanceError{Position: -1, Unclosed: depth}
	}
	return nil
}

// JumpTable maps each LoopStart index to the index just past its matching
// LoopEnd. Entries for other instructions are zero. The program must be
// balanced.
func JumpTable(p *Program) ([]int, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	table := make([]int, len(p.instructions))
	open := make([]int, 0, 16)
	for i, ins := range p.instructions {
		switch ins {
		case LoopStart:
			open = append(open, i)
		case LoopEnd:
			start := open[len(open)-1]
			open = open[:len(open)-1]
			table[start] = i + 1
		}
	}
	return table, nil
}
