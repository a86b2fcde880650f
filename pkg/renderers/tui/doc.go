// Package tui edits an extracted property-sheet schema in the terminal. Each
// interactive descriptor becomes one prompt chosen by its component kind and
// the answers are returned as a group payload ready for reconciliation.
package tui
