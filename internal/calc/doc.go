// Package calc provides the evaluation engines and the factory that
// selects them.
//
// The digits engine runs expressions on the decimal digit-sequence
// implementation in package bigint. The std engine (math/big) and the gmp
// engine (GMP, built with -tags gmp) evaluate the same expressions
// independently, so batch runs can cross-check the results.
package calc
