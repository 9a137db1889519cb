// Package results turns raw strategy output into finalized extraction
// results. It folds label variants into canonical fields, cleans and
// bounds values, scores how much of the raw mapping survived cleaning,
// and validates the serialised form.
//
// Everything here is pure and safe for concurrent use once constructed.
package results
