package types

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// HexBytes is a []byte which encodes as hexadecimal in JSON, with an
// optional "0x" prefix accepted on input.
type HexBytes []byte

// String returns the hex string representation, without the "0x" prefix.
func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

// SetString decodes a hex string (with or without "0x" prefix) into b.
func (b *HexBytes) SetString(s string) error {
	s = strings.TrimPrefix(s, "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*b = data
	return nil
}

func (b HexBytes) MarshalJSON() ([]byte, error) {
	enc := make([]byte, hex.EncodedLen(len(b))+2)
	enc[0] = '"'
	hex.Encode(enc[1:], b)
	enc[len(enc)-1] = '"'
	return enc, nil
}

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid JSON string: %q", data)
	}
	return b.SetString(string(data[1 : len(data)-1]))
}

// BigInt wraps big.Int to provide JSON and CBOR marshaling as a decimal
// string, which keeps arbitrary precision values intact on the wire.
type BigInt big.Int

func (i *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(i)
}

func (i *BigInt) SetUint64(x uint64) *BigInt {
	return (*BigInt)(new(big.Int).SetUint64(x))
}

func (i *BigInt) String() string {
	return i.MathBigInt().String()
}

func (i *BigInt) MarshalText() ([]byte, error) {
	return i.MathBigInt().MarshalText()
}

func (i *BigInt) UnmarshalText(data []byte) error {
	return i.MathBigInt().UnmarshalText(data)
}

func (i *BigInt) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(i.MathBigInt().Bytes())
}

func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(data, &buf); err != nil {
		return err
	}
	i.MathBigInt().SetBytes(buf)
	return nil
}
