// Package document holds the text buffers of a playground session.
//
// A Document carries its content, a revision counter that increases on every
// content change, a set of annotations (error markers) and change observers.
// The playground keeps three of them: the original source, the formatted
// output and the settings text.
package document
