// Package program turns tape source text into an immutable instruction
// sequence and checks that its loops are balanced before it is executed.
package program

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Instruction is one of the eight tape machine operations.
type Instruction uint8

// Instruction values.
const (
	IncrementCell Instruction = iota
	DecrementCell
	MovePointerRight
	MovePointerLeft
	OutputByte
	InputByte
	LoopStart
	LoopEnd
)

// NumInstructions is the number of distinct Instruction values.
const NumInstructions = 8

var tokens = [NumInstructions]byte{
	IncrementCell:    '+',
	DecrementCell:    '-',
	MovePointerRight: '>',
	MovePointerLeft:  '<',
	OutputByte:       '.',
	InputByte:        ',',
	LoopStart:        '[',
	LoopEnd:          ']',
}

var names = [NumInstructions]string{
	IncrementCell:    "increment_cell",
	DecrementCell:    "decrement_cell",
	MovePointerRight: "move_pointer_right",
	MovePointerLeft:  "move_pointer_left",
	OutputByte:       "output_byte",
	InputByte:        "input_byte",
	LoopStart:        "loop_start",
	LoopEnd:          "loop_end",
}

// byToken is the reverse of tokens. Entries for non-token bytes are -1.
var byToken [256]int8

func init() {
	for i := range byToken {
		byToken[i] = -1
	}
	for ins, tok := range tokens {
		byToken[tok] = int8(ins)
	}
}

// FromToken maps a source character to its instruction. The second result
// is false for any character that is not one of the eight tokens.
func FromToken(r rune) (Instruction, bool) {
	if r < 0 || r >= rune(len(byToken)) || byToken[r] < 0 {
		return 0, false
	}
	return Instruction(byToken[r]), true
}

// Token returns the source character for the instruction.
func (i Instruction) Token() byte {
	if int(i) >= NumInstructions {
		return '?'
	}
	return tokens[i]
}

// String returns the source character for the instruction.
func (i Instruction) String() string {
	return string(i.Token())
}

// Name returns a snake_case name suitable for log fields and metric labels.
func (i Instruction) Name() string {
	if int(i) >= NumInstructions {
		return fmt.Sprintf("unknown(%d)", uint8(i))
	}
	return names[i]
}

// Program is an ordered, immutable sequence of instructions.
type Program struct {
	instructions []Instruction
}

// New builds a Program from an instruction slice. The slice is copied.
func New(instructions ...Instruction) *Program {
	out := make([]Instruction, len(instructions))
	copy(out, instructions)
	return &Program{instructions: out}
}

// Parse scans src left to right and keeps every token character.
// Everything else, whitespace and invalid UTF-8 included, is dropped.
func Parse(src string) *Program {
	p := &Program{instructions: make([]Instruction, 0, len(src))}
	for i := 0; i < len(src); i++ {
		if ins, ok := FromToken(rune(src[i])); ok {
			p.instructions = append(p.instructions, ins)
		}
	}
	return p
}

// ParseReader parses all source text available from r.
func ParseReader(r io.Reader) (*Program, error) {
	br := bufio.NewReader(r)
	p := &Program{}
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return p, nil
			}
			return nil, fmt.Errorf("failed to read program source: %w", err)
		}
		if ins, ok := FromToken(rune(b)); ok {
			p.instructions = append(p.instructions, ins)
		}
	}
}

// Load reads and parses the program stored at path.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("program file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer f.Close()

	return ParseReader(f)
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// At returns the instruction at index i.
func (p *Program) At(i int) Instruction {
	return p.instructions[i]
}

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []Instruction {
	out := make([]Instruction, len(p.instructions))
	copy(out, p.instructions)
	return out
}

// Equal reports whether both programs hold the same instruction sequence.
func (p *Program) Equal(other *Program) bool {
	if p.Len() != other.Len() {
		return false
	}
	for i, ins := range p.instructions {
		if other.instructions[i] != ins {
			return false
		}
	}
	return true
}

// String renders the program using only token characters.
func (p *Program) String() string {
	var sb strings.Builder
	sb.Grow(len(p.instructions))
	for _, ins := range p.instructions {
		sb.WriteByte(ins.Token())
	}
	return sb.String()
}

// Format renders the program wrapped at width columns. A width of zero or
// less renders a single line.
func (p *Program) Format(width int) string {
	text := p.String()
	if width <= 0 || len(text) <= width {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(text)/width)
	for start := 0; start < len(text); start += width {
		end := start + width
		if end > len(text) {
			end = len(text)
		}
		if start > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text[start:end])
	}
	return sb.String()
}
