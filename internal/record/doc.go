// Package record implements the PICA+ record model and its line codec.
//
// A record is one line of input: a sequence of fields, each made of a
// 4-byte tag, an optional occurrence and an ordered list of subfields.
//
//	TAG[/OCC] SP (0x1F CODE VALUE)* 0x1E  ...  0x0A
//
// All primitives validate their input on construction. The *Unchecked
// constructors skip validation and exist for callers that already proved
// validity (the parser, test fixtures).
//
// # Memory model
//
// Parse copies every tag, occurrence and value into owned Go strings. A
// parsed Record never aliases the input buffer, so it stays valid after a
// Reader advances and may be retained or shared between goroutines.
//
// # Errors
//
// Malformed input yields a *ParseError carrying the byte offset of the
// failure and, when produced by a Reader, the 1-based line number. Parse
// never recovers from an error; skipping invalid lines is caller policy.
package record
