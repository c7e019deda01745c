// Package frame reads the two halves of one request off the input stream:
// the request line and the raw payload that immediately follows it.
//
// Both readers must share a single *bufio.Reader so payload bytes buffered
// while scanning for a line terminator are not lost.
package frame
