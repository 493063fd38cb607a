// Package ytdlp builds yt-dlp invocations and decodes the tool's textual
// output into typed progress events. It never runs the process itself; the
// session's supervisor owns the child's lifecycle.
package ytdlp
