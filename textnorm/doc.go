// Package textnorm cleans raw extracted text and splits it into bounded
// paragraphs.
//
// Clean folds typographic punctuation and accented Latin letters to ASCII,
// strips control characters and collapses whitespace. It never fails: any
// internal error falls back to an ASCII-only rendition of the input.
//
// Chunk packs words greedily into pieces no longer than a given number of
// runes without ever splitting a word.
package textnorm
