// Package driver runs the lowering engine over many unit dumps: discovery,
// a decode cache, parallel lowering with deterministic result order,
// progress events, cross-reference indexing and a watch loop.
package driver
