package fiatshamir

import (
	"github.com/multiformats/go-multihash"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/cbor"
	"github.com/privacybydesign/sigma/internal/common"
)

type proofWire struct {
	_          struct{} `cbor:",toarray"`
	Version    uint
	Hash       uint64
	Commitment *big.Int
	Challenge  *big.Int
	Response   *big.Int
	PublicKey  *big.Int
	Content    []byte
}

// MarshalBinary encodes the proof as a CBOR array [version, hash, t, c, s, y, content], in
// which the integers are big-endian byte strings and content is an empty byte string when
// no content is bound.
func (p *Proof) MarshalBinary() ([]byte, error) {
	content := []byte(p.Content)
	if content == nil {
		content = []byte{}
	}
	return cbor.Marshal(proofWire{
		Version:    p.Version,
		Hash:       p.Hash,
		Commitment: p.Commitment,
		Challenge:  p.Challenge,
		Response:   p.Response,
		PublicKey:  p.PublicKey,
		Content:    content,
	})
}

// UnmarshalBinary decodes a proof encoded by MarshalBinary. Unknown versions or hash
// functions, missing fields and malformed content digests result in a *cbor.EncodingError.
func (p *Proof) UnmarshalBinary(data []byte) error {
	var w proofWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Version != Version {
		return cbor.Malformed("proof", "unsupported version %d", w.Version)
	}
	if _, err := common.NewHash(w.Hash); err != nil {
		return cbor.Malformed("proof", "%v", err)
	}
	if w.Commitment == nil || w.Challenge == nil || w.Response == nil || w.PublicKey == nil {
		return cbor.Malformed("proof", "missing field")
	}
	var content multihash.Multihash
	if len(w.Content) > 0 {
		var err error
		if content, err = multihash.Cast(w.Content); err != nil {
			return cbor.Malformed("proof", "invalid content digest: %v", err)
		}
	}
	*p = Proof{
		Version:    w.Version,
		Hash:       w.Hash,
		Commitment: w.Commitment,
		Challenge:  w.Challenge,
		Response:   w.Response,
		PublicKey:  w.PublicKey,
		Content:    content,
	}
	return nil
}
