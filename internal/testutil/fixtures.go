package testutil

// HelloWorld prints "Hello World!\n".
const HelloWorld = `Print a greeting
++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]
>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.
`

// HelloWorldOutput is what HelloWorld writes.
const HelloWorldOutput = "Hello World!\n"

// LetterA prints "A" by incrementing a cell 65 times.
const LetterA = `+++++ +++++ +++++ +++++ +++++ +++++ +++++ +++++ +++++ +++++
+++++ +++++ +++++ output the cell: .`

// Echo copies input to output until the input runs out, at which point the
// run fails with an input-exhausted error.
const Echo = ",[.,]"

// Transfer moves the value of cell 0 into cell 1.
const Transfer = "[->+<]"

// Unbalanced has an unmatched LoopEnd after some output.
const Unbalanced = "+.]"

// Unclosed leaves a loop open.
const Unclosed = "+[[-]"

// Commentary contains no token characters at all.
const Commentary = `This file is prose only
and has no instructions in it`

// SamplePrograms returns named sources for table-driven tests.
// Returns a new map each time so tests can modify it.
func SamplePrograms() map[string]string {
	return map[string]string{
		"hello.b":      HelloWorld,
		"letter-a.b":   LetterA,
		"echo.b":       Echo,
		"transfer.b":   Transfer,
		"unbalanced.b": Unbalanced,
		"unclosed.b":   Unclosed,
		"comments.b":   Commentary,
	}
}
