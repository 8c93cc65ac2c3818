// Package testutil provides shared test helpers and sample programs.
//
// # Fixtures
//
// fixtures.go holds sample sources:
//
//   - HelloWorld, LetterA - programs with known output
//   - Echo - copies input to output, then fails on exhausted input
//   - Transfer - moves cell 0 into cell 1
//   - Unbalanced, Unclosed - structurally invalid programs
//   - Commentary - text with no instructions
//
// # Environment Helpers
//
//   - SetupTestDir(t) - temp working directory with .tape/config.yaml
//   - WriteProgram(t, dir, name, src) - writes a program file
//   - WriteSamplePrograms(t, dir) - writes every fixture
//
// # Timeouts
//
//   - ContextWithTestDeadline(t, fallback), WatchContext(t)
//   - Eventually(timeout, cond) - polling helper for file watcher tests
package testutil
