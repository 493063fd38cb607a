// Package validate cleans and classifies untrusted input (URLs, filesystem
// paths, command arguments) before any of it can reach a process launch.
package validate
