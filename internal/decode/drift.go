package decode

import (
	"encoding/binary"
	"strings"
)

// Drift account layouts. Offsets are fixed by the on-chain program; the
// decoders below are the only place they appear.
const (
	vaultNameOffset        = 8
	vaultNameLen           = 32
	vaultUserPubkeyOffset  = 168
	vaultTotalSharesOffset = 280
	vaultSpotMarketOffset  = 468
	vaultMinLen            = vaultSpotMarketOffset + 2

	userAccountMinLen = 1192

	spotPositionsOffset = 104
	spotPositionStride  = 40
	spotPositionSlots   = 8

	perpPositionsOffset = 424
	perpPositionStride  = 96
	perpPositionSlots   = 8

	spotBalancePrecision = 1e9
	perpBasePrecision    = 1e9
	perpQuotePrecision   = 1e6
)

// VaultAccount is the decoded metadata of a Drift strategy vault account.
type VaultAccount struct {
	Name            string
	UserPubkey      string
	TotalShares     float64
	SpotMarketIndex uint16
}

// SpotMarketState is the live state needed to price a spot position:
// cumulative interest (hex 1e10 descaled) and the oracle price in USD.
type SpotMarketState struct {
	CumulativeDepositInterest float64
	CumulativeBorrowInterest  float64
	OraclePrice               float64
}

// PerpMarketState carries the oracle price for a perp market in USD.
type PerpMarketState struct {
	OraclePrice float64
}

// DecodeVaultAccount extracts vault metadata from a raw account buffer.
// Returns false when the buffer is too short to hold the known layout.
func DecodeVaultAccount(buf []byte) (VaultAccount, bool) {
	if len(buf) < vaultMinLen {
		return VaultAccount{}, false
	}

	name := strings.TrimRight(string(buf[vaultNameOffset:vaultNameOffset+vaultNameLen]), "\x00 ")

	// u128 little-endian, assembled byte-by-byte: the value can exceed
	// uint64 so it goes straight into a float accumulator.
	shares := 0.0
	mult := 1.0
	for i := 0; i < 16; i++ {
		shares += float64(buf[vaultTotalSharesOffset+i]) * mult
		mult *= 256
	}

	return VaultAccount{
		Name:            name,
		UserPubkey:      Base58Encode(buf[vaultUserPubkeyOffset : vaultUserPubkeyOffset+32]),
		TotalShares:     shares,
		SpotMarketIndex: binary.LittleEndian.Uint16(buf[vaultSpotMarketOffset:]),
	}, true
}

// UserAccountEquity computes the USD equity of a Drift user account from
// its raw buffer: spot deposits minus borrows, plus perp position value.
// Short buffers and unknown market indices contribute zero, never an error.
func UserAccountEquity(buf []byte, spot map[uint16]SpotMarketState, perp map[uint16]PerpMarketState) float64 {
	if len(buf) < userAccountMinLen {
		return 0
	}

	equity := 0.0

	for i := 0; i < spotPositionSlots; i++ {
		base := spotPositionsOffset + i*spotPositionStride
		scaledBalance := binary.LittleEndian.Uint64(buf[base:])
		if scaledBalance == 0 {
			continue
		}
		marketIndex := binary.LittleEndian.Uint16(buf[base+32:])
		balanceType := buf[base+34]

		st, ok := spot[marketIndex]
		if !ok {
			continue
		}
		interest := st.CumulativeDepositInterest
		if balanceType == 1 {
			interest = st.CumulativeBorrowInterest
		}
		tokens := float64(scaledBalance) / spotBalancePrecision * interest
		value := tokens * st.OraclePrice
		if balanceType == 1 {
			value = -value
		}
		equity += value
	}

	for i := 0; i < perpPositionSlots; i++ {
		base := perpPositionsOffset + i*perpPositionStride
		baseAmount := int64(binary.LittleEndian.Uint64(buf[base+8:]))
		quoteEntry := int64(binary.LittleEndian.Uint64(buf[base+32:]))
		if baseAmount == 0 && quoteEntry == 0 {
			continue
		}
		marketIndex := binary.LittleEndian.Uint16(buf[base+92:])
		st, ok := perp[marketIndex]
		if !ok {
			continue
		}
		equity += float64(baseAmount)/perpBasePrecision*st.OraclePrice +
			float64(quoteEntry)/perpQuotePrecision
	}

	return equity
}
