package vim

import "math"

// maxCount caps typed counts instead of overflowing.
const maxCount = math.MaxInt32

// CountState tracks count prefix accumulation.
type CountState struct {
	// Value is the accumulated count value.
	Value int

	// Active indicates if a count is being accumulated.
	Active bool
}

// Reset clears the count state.
func (c *CountState) Reset() {
	c.Value = 0
	c.Active = false
}

// AccumulateDigit adds a digit to the count and reports whether it was
// accepted. A leading '0' is not a count; it is the motion to column 0.
func (c *CountState) AccumulateDigit(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}

	digit := int(r - '0')
	if !c.Active && digit == 0 {
		return false
	}

	c.Active = true
	if c.Value > (maxCount-digit)/10 {
		c.Value = maxCount
		return true
	}
	c.Value = c.Value*10 + digit
	return true
}

// Get returns the effective count (1 if no count was typed).
func (c *CountState) Get() int {
	if c.Value <= 0 {
		return 1
	}
	return c.Value
}

// IsCountStart returns true if the character could start a count.
func IsCountStart(r rune) bool {
	return r >= '1' && r <= '9'
}

// CombineCounts multiplies two counts, treating zero as one, and caps the
// product. "2d3w" deletes six words.
func CombineCounts(count1, count2 int) int {
	if count1 <= 0 {
		count1 = 1
	}
	if count2 <= 0 {
		count2 = 1
	}
	if count1 > maxCount/count2 {
		return maxCount
	}
	return count1 * count2
}
