// Package errors provides structured error types for the keymap-clone library.
//
// Errors are categorized by Phase (which pass or collaborator failed) and Kind
// (error category). The Error type carries the slot path, expected and actual
// values for integrity checks, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCopy, errors.KindIntegrityViolation).
//		Path("lo").
//		Expected(0x1a0).
//		Actual(0x1a4).
//		Detail("payload cursor diverged from measurement").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ProtocolViolation(errors.PhaseClassify, path, tag, "reserved kind pattern")
//	err := errors.IntegrityViolation(errors.PhaseClone, path, "value cursor", want, got)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
