// Package main hosts the bankrip CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration (file, environment, then
// flags), builds the structured logger on stderr, and hands off to the
// internal packages: extract runs a full extraction, index inspects the
// description file, history reads the run manifest, and config scaffolds or
// checks configuration. Tables go to stdout and are coloured only on a
// terminal.
package main
