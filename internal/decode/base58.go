package decode

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Base58Encode encodes raw bytes (typically a 32-byte Solana pubkey) in
// base58. Leading zero bytes become leading '1' characters, matching the
// on-chain address format; the rest is repeated long division by 58.
func Base58Encode(input []byte) string {
	if len(input) == 0 {
		return ""
	}

	zeros := 0
	for zeros < len(input) && input[zeros] == 0 {
		zeros++
	}

	// Worst-case output length is len*138/100 rounded up.
	size := (len(input)-zeros)*138/100 + 1
	buf := make([]byte, size)

	digits := append([]byte(nil), input[zeros:]...)
	high := 0
	for len(digits) > 0 {
		// One round of long division of the big-endian digit string by 58.
		remainder := 0
		quotient := digits[:0]
		started := false
		for _, d := range digits {
			acc := remainder*256 + int(d)
			q := acc / 58
			remainder = acc % 58
			if q > 0 || started {
				quotient = append(quotient, byte(q))
				started = true
			}
		}
		buf[high] = base58Alphabet[remainder]
		high++
		digits = quotient
	}

	out := make([]byte, 0, zeros+high)
	for i := 0; i < zeros; i++ {
		out = append(out, '1')
	}
	for i := high - 1; i >= 0; i-- {
		out = append(out, buf[i])
	}
	return string(out)
}
