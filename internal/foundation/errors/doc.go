// Package errors provides the classified error primitives used across dumpsite.
//
// A ClassifiedError carries a category (what part of the conversion failed), a
// severity (fatal, error, warning, info) and structured context. Errors are built
// with the fluent ErrorBuilder:
//
//	err := errors.DumpError("resources table missing").
//		WithContext("table", "modx_site_content").
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
