// Package pipeline wires configuration, the alias table, the snapshot store,
// and the merge, diagnose, and standings engines into the operations the CLI
// exposes.
//
// Every operation gets a fresh run ID that is attached to its context and
// log lines. Source-level failures are logged and reported in the outcome;
// only failures that leave no usable output (an unreadable game feed, an
// unwritable output file) are returned as errors.
package pipeline
