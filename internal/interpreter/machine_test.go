package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/tape/internal/program"
)

func runMachine(t *testing.T, m *Machine, src string, input string, jumpTable bool) (string, error) {
	t.Helper()

	p := program.Parse(src)
	var jumps []int
	if jumpTable {
		table, err := program.JumpTable(p)
		require.NoError(t, err)
		jumps = table
	}

	var out bytes.Buffer
	err := m.Run(p, strings.NewReader(input), &out, jumps)
	return out.String(), err
}

func TestMachine_NewIsZeroed(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	assert.Equal(t, 0, m.CellPointer())
	assert.Equal(t, 0, m.InstructionPointer())
	assert.Equal(t, 0, m.LoopDepth())
	for i := 0; i < TapeSize; i++ {
		if m.Cell(i) != 0 {
			t.Fatalf("cell %d not zero", i)
		}
	}
}

func TestMachine_CellWraparound(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	out, err := runMachine(t, m, strings.Repeat("+", 256)+".", "", true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, []byte(out))

	m = NewMachine()
	out, err = runMachine(t, m, "-.", "", true)
	require.NoError(t, err)
	assert.Equal(t, []byte{255}, []byte(out))
}

func TestMachine_PointerWraparound(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	_, err := runMachine(t, m, strings.Repeat(">", TapeSize), "", true)
	require.NoError(t, err)
	assert.Equal(t, 0, m.CellPointer())

	m = NewMachine()
	_, err = runMachine(t, m, "<+", "", true)
	require.NoError(t, err)
	assert.Equal(t, TapeSize-1, m.CellPointer())
	assert.Equal(t, byte(1), m.Cell(TapeSize-1))
	assert.Equal(t, byte(1), m.Cell(-1))

	m = NewMachine()
	_, err = runMachine(t, m, "<>", "", true)
	require.NoError(t, err)
	assert.Equal(t, 0, m.CellPointer())
}

func TestMachine_TransferLoop(t *testing.T) {
	t.Parallel()

	for _, jumpTable := range []bool{true, false} {
		m := NewMachine()
		m.SetCell(0, 3)

		_, err := runMachine(t, m, "[->+<]", "", jumpTable)
		require.NoError(t, err)
		assert.Equal(t, byte(0), m.Cell(0), "jumpTable=%v", jumpTable)
		assert.Equal(t, byte(3), m.Cell(1), "jumpTable=%v", jumpTable)
		assert.Equal(t, 0, m.CellPointer())
		assert.Equal(t, 0, m.LoopDepth())
		assert.Equal(t, 6, m.InstructionPointer())
	}
}

func TestMachine_SkipsLoopOnZero(t *testing.T) {
	t.Parallel()

	for _, jumpTable := range []bool{true, false} {
		m := NewMachine()
		out, err := runMachine(t, m, "[+[.]>+]+.", "", jumpTable)
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, []byte(out))
		assert.Equal(t, byte(1), m.Cell(0))
		assert.Equal(t, byte(0), m.Cell(1))
		assert.Equal(t, uint64(1), m.Stats().Count(program.OutputByte))
	}
}

func TestMachine_UnbalancedTouchesNothing(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"+.[", "+.]", "+[.]]"} {
		m := NewMachine()
		var out bytes.Buffer
		err := m.Run(program.Parse(src), strings.NewReader(""), &out, nil)

		require.Error(t, err, src)
		assert.True(t, errors.Is(err, ErrUnbalancedProgram), src)
		assert.True(t, errors.Is(err, program.ErrUnbalanced), src)
		assert.Empty(t, out.Bytes(), src)
		assert.Equal(t, byte(0), m.Cell(0), src)
		assert.Equal(t, uint64(0), m.Stats().Steps, src)
	}
}

func TestMachine_UnmatchedLoopEndWithoutValidation(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	var out bytes.Buffer
	err := m.run(program.Parse("+.]"), byteReader(strings.NewReader("")), &out, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmatchedLoopEnd))
	var ee *ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.Position)
	assert.Equal(t, program.LoopEnd, ee.Instruction)
	// output already written stays written
	assert.Equal(t, []byte{1}, out.Bytes())
}

func TestMachine_SkipOverrunWithoutValidation(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	err := m.run(program.Parse("[+"), byteReader(strings.NewReader("")), &bytes.Buffer{}, nil)
	assert.True(t, errors.Is(err, ErrSkipOverrun))
}

func TestMachine_InvalidInstruction(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	err := m.Run(program.New(program.IncrementCell, program.Instruction(9)), strings.NewReader(""), &bytes.Buffer{}, nil)
	assert.True(t, errors.Is(err, ErrInvalidInstruction))
	assert.Equal(t, byte(1), m.Cell(0))
}

func TestMachine_JumpTableSizeMismatch(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	err := m.Run(program.Parse("[]"), strings.NewReader(""), &bytes.Buffer{}, []int{2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jump table has 1 entries for 2 instructions")
}

func TestStats_Count(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	_, err := runMachine(t, m, "++[-]", "", true)
	require.NoError(t, err)

	stats := m.Stats()
	assert.Equal(t, uint64(2), stats.Count(program.IncrementCell))
	assert.Equal(t, uint64(2), stats.Count(program.DecrementCell))
	// entered twice, skipped once
	assert.Equal(t, uint64(3), stats.Count(program.LoopStart))
	assert.Equal(t, uint64(2), stats.Count(program.LoopEnd))
	assert.Equal(t, uint64(9), stats.Steps)
	assert.Equal(t, uint64(0), stats.Count(program.Instruction(200)))
}
