// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle that turns a loaded job
// file into evaluated grids on disk, decoupled from any specific entrypoint
// like a CLI.
package app
