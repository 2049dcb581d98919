// Package app contains the core application logic: loading a workbook,
// binding it to an engine, applying overrides, evaluating entries and
// exporting the resulting graph. It is decoupled from any specific
// entrypoint like a CLI.
package app
