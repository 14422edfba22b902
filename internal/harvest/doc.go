// Package harvest runs one source end to end: load the target store, harvest
// candidates, filter and normalize them, merge into the existing rows and
// save the result.
//
// A run either saves the complete merged table or writes nothing. A store
// that cannot be read, or a source that fails partway, aborts the run before
// Save is reached.
package harvest
