package document

// taxIDWeights is the fixed weight vector of the business registration
// number checksum
var taxIDWeights = [8]int{1, 2, 1, 2, 1, 2, 4, 1}

// ValidateTaxID checks the checksum of an 8-digit business registration
// number. The input must already be cleaned to digits; callers are
// responsible for length checks and format warnings.
func ValidateTaxID(taxID string) bool {
	if len(taxID) != 8 {
		return false
	}

	sum := 0
	for i := 0; i < 8; i++ {
		d := int(taxID[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		product := d * taxIDWeights[i]
		// Add the two decimal digits of the product
		sum += product/10 + product%10
	}

	// Registration numbers whose seventh digit is 7 are valid under either
	// checksum, a documented exception in the issuing rules
	if taxID[6] == '7' {
		return sum%10 == 0 || (sum+1)%10 == 0
	}

	return sum%10 == 0
}
