package bigint

// DigitSequence holds the decimal digits of a magnitude, least-significant
// digit first. Each element is in [0, 9]. The empty sequence is zero.
type DigitSequence []uint8

// digitsFromString builds a sequence from ASCII digits written
// most-significant first. s must contain only '0'..'9'.
func digitsFromString(s string) DigitSequence {
	n := len(s)
	d := make(DigitSequence, n)
	for i := 0; i < n; i++ {
		d[n-1-i] = s[i] - '0'
	}
	return d
}

// at returns the digit at position i, or 0 past the most-significant end.
func (d DigitSequence) at(i int) uint8 {
	if i < len(d) {
		return d[i]
	}
	return 0
}

func (d DigitSequence) clone() DigitSequence {
	if len(d) == 0 {
		return nil
	}
	c := make(DigitSequence, len(d))
	copy(c, d)
	return c
}

// trim drops most-significant zeros. An all-zero sequence becomes empty.
func (d DigitSequence) trim() DigitSequence {
	n := len(d)
	for n > 0 && d[n-1] == 0 {
		n--
	}
	if n == 0 {
		return nil
	}
	return d[:n]
}

// addDigits returns a + b computed digit by digit with carry. The shorter
// operand is padded with zeros; a final carry appends one more digit.
func addDigits(a, b DigitSequence) DigitSequence {
	n := max(len(a), len(b))
	sum := make(DigitSequence, n, n+1)
	var carry uint8
	for i := 0; i < n; i++ {
		s := carry + a.at(i) + b.at(i)
		sum[i] = s % 10
		carry = s / 10
	}
	if carry > 0 {
		sum = append(sum, carry)
	}
	return sum
}

// subtractDigits returns bigger - smaller. The magnitude of bigger must be
// at least that of smaller. The result may carry most-significant zeros.
func subtractDigits(bigger, smaller DigitSequence) DigitSequence {
	diff := make(DigitSequence, len(bigger))
	var borrow int8
	for i := range bigger {
		d := int8(bigger[i]) - int8(smaller.at(i)) - borrow
		if d < 0 {
			d += 10
			borrow = 1
		} else {
			borrow = 0
		}
		diff[i] = uint8(d)
	}
	return diff
}

// multiplyDigit returns d * m for a single digit m in [0, 9].
func multiplyDigit(d DigitSequence, m uint8) DigitSequence {
	product := make(DigitSequence, len(d), len(d)+1)
	var carry uint8
	for i, digit := range d {
		p := carry + digit*m
		product[i] = p % 10
		carry = p / 10
	}
	if carry > 0 {
		product = append(product, carry)
	}
	return product
}

// shiftDigits returns d multiplied by 10^k: k zeros in front of the
// least-significant digit.
func shiftDigits(d DigitSequence, k int) DigitSequence {
	if k == 0 || len(d) == 0 {
		return d
	}
	shifted := make(DigitSequence, k+len(d))
	copy(shifted[k:], d)
	return shifted
}
