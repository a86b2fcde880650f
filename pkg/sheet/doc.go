// Package sheet binds a configuration record to a property-sheet front-end.
//
// A Sheet has two operations. Extract walks a record (a struct whose struct
// fields become named groups) and produces a model.Schema of ordered groups
// and field descriptors. Reconcile takes the edits a front-end sends back,
// either as a list of groups or as a flat key/value patch, and applies them
// to a deep copy of the last value the sheet saw.
//
// A Sheet starts UNBOUND and learns its record type the first time Extract
// receives a real record. Reconcile on an UNBOUND sheet returns nil. A Sheet
// carries no lock; callers serialise access per instance.
package sheet
