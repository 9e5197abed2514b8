package main

import "fmt"

// IOError reports a failed filesystem operation on Path.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("I/O error for path %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// CollisionError reports a destination that already exists while neither
// force nor auto-numbering was requested.
type CollisionError struct {
	Path string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("collision: destination %s already exists", e.Path)
}

// TraversalError reports a directory entry that could not be enumerated.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traversal error at %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }
