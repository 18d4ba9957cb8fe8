package rewriter

import "errors"

// Fatal rewrite conditions. All four abort processing of the current file
// immediately; there is no warn-and-continue tier. Callers match them with
// errors.Is since they are returned wrapped with the offending file name.
var (
	// ErrUnsupportedFormatting is raised for string literals used with a
	// placeholder-formatting method call; the rewriter cannot prove the
	// placeholders stay consistent with renamed symbols.
	ErrUnsupportedFormatting = errors.New("unsupported string formatting")

	// ErrIllegalDynamicPath is raised in melt mode for a structural
	// resource path containing a percent placeholder.
	ErrIllegalDynamicPath = errors.New("illegal dynamic resource path")

	// ErrMissingResource is raised in melt mode when a structural
	// resource path does not resolve to a file under the project root.
	ErrMissingResource = errors.New("missing resource")

	// ErrUnterminatedSpecialBlock is raised when end of file is reached
	// with an ignore block still open.
	ErrUnterminatedSpecialBlock = errors.New("unterminated ignore block")
)
