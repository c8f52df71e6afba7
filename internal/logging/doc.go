// Package logging constructs the slog loggers used for operator
// diagnostics. The append-only action log written next to the organized
// files is a separate concern (see internal/actionlog); this package only
// covers the console/json diagnostic stream.
package logging
