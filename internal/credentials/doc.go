// Package credentials persists the single GitHub access token used by gitmaster.
//
// Store reads and writes a small YAML record next to the working directory and
// replaces it atomically. Cell holds the token for the running session.
package credentials
