// Package app contains the core application logic. It defines the App
// struct and its configuration, and exposes one method per parameter file
// operation, decoupled from any specific entrypoint like a CLI.
package app
