package helpers

import (
	"crypto/rand"
	"math/big"
)

// OTPSpace is the number of distinct 6-digit codes (000000-999999).
const OTPSpace = 1000000

// GenOTPCode returns a uniformly random code in [0, OTPSpace).
func GenOTPCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(OTPSpace))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
