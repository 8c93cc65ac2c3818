package interpreter

import (
	"errors"
	"fmt"

	"github.com/thruflo/tape/internal/program"
)

// Errors returned by Execute. All of them end the run; nothing already
// written to the output or the tape is rolled back.
var (
	// ErrUnbalancedProgram is returned before any instruction runs when the
	// program's loop brackets do not pair up.
	ErrUnbalancedProgram = errors.New("unbalanced program")

	// ErrUnmatchedLoopEnd is returned when a LoopEnd finds the loop-return
	// stack empty. Validation makes this unreachable through Execute.
	ErrUnmatchedLoopEnd = errors.New("unmatched loop end")

	// ErrInputExhausted is returned when InputByte runs with no input left.
	ErrInputExhausted = errors.New("input exhausted")

	// ErrSkipOverrun is returned when a forward skip runs off the end of the
	// program looking for a matching LoopEnd. Like ErrUnmatchedLoopEnd it
	// only happens when validation was bypassed.
	ErrSkipOverrun = errors.New("forward skip ran past end of program")

	// ErrInvalidInstruction is returned for an instruction value outside the
	// eight known operations, which only program.New can produce.
	ErrInvalidInstruction = errors.New("invalid instruction")
)

// ExecutionError locates a runtime failure in the program.
type ExecutionError struct {
	Instruction program.Instruction
	Position    int
	Err         error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%v at instruction %d (%q)", e.Err, e.Position, e.Instruction.String())
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
