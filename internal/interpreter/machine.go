package interpreter

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/thruflo/tape/internal/program"
)

// TapeSize is the number of cells on the tape. The cell pointer wraps
// modulo TapeSize in both directions.
const TapeSize = 32768

// Stats counts the instructions a run executed.
type Stats struct {
	Steps  uint64
	Counts [program.NumInstructions]uint64
}

// Count returns how many times ins was executed.
func (s Stats) Count(ins program.Instruction) uint64 {
	if int(ins) >= program.NumInstructions {
		return 0
	}
	return s.Counts[ins]
}

// Machine is the mutable state of a single execution.
type Machine struct {
	tape               [TapeSize]byte
	cellPointer        int
	instructionPointer int
	loopStack          []int
	stats              Stats
}

// NewMachine returns a machine with a zeroed tape and both pointers at 0.
func NewMachine() *Machine {
	return &Machine{loopStack: make([]int, 0, 16)}
}

// Cell returns the value of tape cell i (taken modulo TapeSize).
func (m *Machine) Cell(i int) byte {
	return m.tape[wrap(i)]
}

// SetCell stores v in tape cell i (taken modulo TapeSize).
func (m *Machine) SetCell(i int, v byte) {
	m.tape[wrap(i)] = v
}

// CellPointer returns the index of the currently addressed cell.
func (m *Machine) CellPointer() int {
	return m.cellPointer
}

// InstructionPointer returns the index of the next instruction to execute.
func (m *Machine) InstructionPointer() int {
	return m.instructionPointer
}

// LoopDepth returns the number of entries on the loop-return stack.
func (m *Machine) LoopDepth() int {
	return len(m.loopStack)
}

// Stats returns the instruction counts gathered so far.
func (m *Machine) Stats() Stats {
	return m.stats
}

// Run validates p and executes it against the machine until the
// instruction pointer passes the end of the program or an error occurs.
// When jumps is non-nil it must be program.JumpTable(p); zero-cell loop
// entries then jump directly instead of scanning forward.
func (m *Machine) Run(p *program.Program, in io.Reader, out io.Writer, jumps []int) error {
	if err := program.Validate(p); err != nil {
		return fmt.Errorf("%w: %w", ErrUnbalancedProgram, err)
	}
	if jumps != nil && len(jumps) != p.Len() {
		return fmt.Errorf("jump table has %d entries for %d instructions", len(jumps), p.Len())
	}
	return m.run(p, byteReader(in), out, jumps)
}

func (m *Machine) run(p *program.Program, in io.ByteReader, out io.Writer, jumps []int) error {
	var outBuf [1]byte
	n := p.Len()

	for m.instructionPointer < n {
		ip := m.instructionPointer
		ins := p.At(ip)
		if int(ins) >= program.NumInstructions {
			return &ExecutionError{Instruction: ins, Position: ip, Err: ErrInvalidInstruction}
		}
		m.stats.Steps++
		m.stats.Counts[ins]++

		switch ins {
		case program.IncrementCell:
			m.tape[m.cellPointer] = byte((int(m.tape[m.cellPointer]) + 1) % 256)
		case program.DecrementCell:
			m.tape[m.cellPointer] = byte((int(m.tape[m.cellPointer]) + 255) % 256)
		case program.MovePointerRight:
			m.cellPointer = (m.cellPointer + 1) % TapeSize
		case program.MovePointerLeft:
			m.cellPointer = (m.cellPointer + TapeSize - 1) % TapeSize
		case program.OutputByte:
			outBuf[0] = m.tape[m.cellPointer]
			if _, err := out.Write(outBuf[:]); err != nil {
				return &ExecutionError{Instruction: ins, Position: ip, Err: fmt.Errorf("failed to write output: %w", err)}
			}
		case program.InputByte:
			if f, ok := out.(flusher); ok {
				if err := f.Flush(); err != nil {
					return &ExecutionError{Instruction: ins, Position: ip, Err: fmt.Errorf("failed to flush output: %w", err)}
				}
			}
			b, err := in.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return &ExecutionError{Instruction: ins, Position: ip, Err: ErrInputExhausted}
				}
				return &ExecutionError{Instruction: ins, Position: ip, Err: fmt.Errorf("failed to read input: %w", err)}
			}
			m.tape[m.cellPointer] = b
		case program.LoopStart:
			if m.tape[m.cellPointer] == 0 {
				next, err := m.skip(p, ip, jumps)
				if err != nil {
					return &ExecutionError{Instruction: ins, Position: ip, Err: err}
				}
				m.instructionPointer = next
				continue
			}
			m.loopStack = append(m.loopStack, ip)
		case program.LoopEnd:
			top := len(m.loopStack) - 1
			if top < 0 {
				return &ExecutionError{Instruction: ins, Position: ip, Err: ErrUnmatchedLoopEnd}
			}
			m.instructionPointer = m.loopStack[top]
			m.loopStack = m.loopStack[:top]
			continue
		}

		m.instructionPointer++
	}
	return nil
}

// skip returns the index just past the LoopEnd matching the LoopStart at ip.
func (m *Machine) skip(p *program.Program, ip int, jumps []int) (int, error) {
	if jumps != nil {
		return jumps[ip], nil
	}

	depth := 1
	for i := ip + 1; i < p.Len(); i++ {
		switch p.At(i) {
		case program.LoopStart:
			depth++
		case program.LoopEnd:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, ErrSkipOverrun
}

func wrap(i int) int {
	i %= TapeSize
	if i < 0 {
		i += TapeSize
	}
	return i
}

// flusher is implemented by buffered outputs. Pending bytes are flushed
// before every read so a prompt is visible while input is awaited.
type flusher interface {
	Flush() error
}

func byteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}
