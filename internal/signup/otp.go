package signup

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeSpace is the width of the numeric OTP space. Codes are drawn from
// [100000, 999999] so every code is exactly six digits with no leading zero.
const codeSpace = 900000

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
