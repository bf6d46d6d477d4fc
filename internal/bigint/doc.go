// Package bigint implements arbitrary-precision signed integers stored as
// sequences of decimal digits.
//
// A BigInteger is built by Parse from a decimal string or returned fresh by
// Add and Multiply. Values never share digit storage and no operation
// modifies its operands, so a BigInteger may be read from several
// goroutines at once. Subtraction is expressed as addition of a negated
// operand:
//
//	a := bigint.MustParse("500")
//	b := bigint.MustParse("-123")
//	fmt.Println(bigint.Add(a, b)) // 377
//
// Every value is kept in canonical form: no most-significant zero digits,
// and zero is never negative.
package bigint
