package group

import (
	"encoding/json"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/cbor"
)

// Version of the binary parameter encoding.
const Version = 1

type paramsWire struct {
	_       struct{} `cbor:",toarray"`
	Version uint
	P       *big.Int
	Q       *big.Int
	G       *big.Int
}

// MarshalBinary encodes the parameters as a CBOR array [version, p, q, g] in which the
// integers are big-endian byte strings.
func (gp *Params) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(paramsWire{Version: Version, P: gp.P, Q: gp.Q, G: gp.G})
}

// UnmarshalBinary decodes and validates parameters encoded by MarshalBinary. Malformed input
// results in a *cbor.EncodingError, well-formed parameters violating the group invariants
// in an *InvalidParametersError.
func (gp *Params) UnmarshalBinary(data []byte) error {
	var w paramsWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Version != Version {
		return cbor.Malformed("group parameters", "unsupported version %d", w.Version)
	}
	if w.P == nil || w.Q == nil || w.G == nil {
		return cbor.Malformed("group parameters", "missing field")
	}
	return gp.set(w.P, w.Q, w.G)
}

// UnmarshalJSON decodes and validates parameters.
func (gp *Params) UnmarshalJSON(data []byte) error {
	var w struct {
		P *big.Int `json:"p"`
		Q *big.Int `json:"q"`
		G *big.Int `json:"g"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return gp.set(w.P, w.Q, w.G)
}

func (gp *Params) set(p, q, g *big.Int) error {
	if err := check(p, q, g); err != nil {
		return err
	}
	gp.P, gp.Q, gp.G = p, q, g
	return nil
}
