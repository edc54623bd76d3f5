// Package character holds the editable state of one character sheet: the
// five base characteristics and the skill category ledger.
//
// Both types are owned by a single editor and are not safe for concurrent
// mutation. Every mutating method validates before it writes, so a failed
// call leaves the value unchanged.
package character
