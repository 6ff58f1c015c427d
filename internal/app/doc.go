// Package app holds the runtime glue above the protocol core: configuration,
// the chat payload format, and the line-oriented chat loop the CLI drives.
package app
