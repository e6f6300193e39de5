// Package binder assembles a directory of office documents into one ordered
// sequence of flow elements.
//
// Every supported file under the root becomes a title, a metadata block, its
// converted content and a trailing spacer. Text is cleaned and chunked,
// tables are normalized and images re-encoded along the way. Problems that
// affect a single file or unit are returned as warnings; only a root that
// cannot be enumerated fails the run.
//
// Basic usage:
//
//	flow, warnings, err := binder.Open("./docs").Assemble(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", model.FormatWarnings(warnings))
//	}
//
// With options:
//
//	flow, _, err := binder.Open("./docs").
//	    MaxChunk(1500).
//	    ImageBox(600, 400).
//	    ImageFormat("PNG").
//	    CoverPage(true).
//	    Assemble(ctx)
//
// The flow is consumed by a renderer; see the render package.
package binder

import (
	"log/slog"
	"time"
)

// Open returns a Binder for the directory at root. Nothing is read until
// Assemble is called.
//
// Example:
//
//	flow, warnings, err := binder.Open("./docs").Assemble(ctx)
func Open(root string) *Binder {
	return &Binder{
		root:    root,
		options: defaultOptions(),
		logger:  slog.Default(),
		now:     time.Now,
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
