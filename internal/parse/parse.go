// Package parse extracts structured reservation fields from free-text
// voice transcripts. Every extractor is a pure function over the utterance;
// a phrase that matches no known template yields ErrNoMatch so the caller
// can re-prompt.
package parse

import "errors"

// ErrNoMatch means the utterance did not match any known phrase template
// for the expected field. Recoverable: ask the caller to repeat.
var ErrNoMatch = errors.New("parse: utterance did not match")
