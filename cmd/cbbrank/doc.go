// Package main hosts the cbbrank CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto pipeline runs:
// ingesting raw rank tables into the snapshot store, merging ranks onto the
// game feed, diagnosing unresolved names, building standings, and reviewing
// or applying alias suggestions. Configuration resolution, logging setup,
// and store lifetime live here so the commands stay declarative.
package main
