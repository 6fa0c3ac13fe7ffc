package fileproof

import (
	"encoding/hex"
	"time"

	"github.com/go-errors/errors"
	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"

	"github.com/privacybydesign/sigma/big"
	"github.com/privacybydesign/sigma/cbor"
	"github.com/privacybydesign/sigma/fiatshamir"
)

// ErrNotFound is returned when the store holds no record for a content digest and public key.
var ErrNotFound = bolthold.ErrNotFound

type (
	// Store is a bolthold database of possession proofs, keyed by content digest and public key.
	Store struct {
		bolt *bolthold.Store
	}

	// Record is a stored possession proof.
	Record struct {
		// Content is the hex-encoded multihash of the content.
		Content string `boltholdIndex:"Content"`
		// PublicKey is the hex-encoded public value of the prover.
		PublicKey string `boltholdIndex:"PublicKey"`
		// Proof is the binary encoding of the proof.
		Proof   []byte
		Created int64
	}
)

// OpenStore opens the database at path, creating it if necessary. Records are encoded
// with deterministic CBOR.
func OpenStore(path string) (*Store, error) {
	b, err := bolthold.Open(path, 0600, &bolthold.Options{
		Encoder: cbor.Marshal,
		Decoder: cbor.Unmarshal,
		Options: &bolt.Options{Timeout: 1 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &Store{bolt: b}, nil
}

func publicKeyHex(y *big.Int) string {
	return hex.EncodeToString(y.Bytes())
}

func recordKey(digest Digest, y *big.Int) string {
	return digest.String() + "/" + publicKeyHex(y)
}

// Put stores the proof, replacing any earlier proof by the same public key for the same content.
// Proofs by different provers of the same content are kept side by side.
func (s *Store) Put(proof *fiatshamir.Proof) error {
	if proof == nil || len(proof.Content) == 0 || proof.PublicKey == nil {
		return errors.New("only proofs binding content and a public key can be stored")
	}
	bts, err := proof.MarshalBinary()
	if err != nil {
		return err
	}
	r := &Record{
		Content:   Digest(proof.Content).String(),
		PublicKey: publicKeyHex(proof.PublicKey),
		Proof:     bts,
		Created:   time.Now().UnixNano(),
	}
	return s.bolt.Upsert(recordKey(Digest(proof.Content), proof.PublicKey), r)
}

// Get returns the record for the content digest made with public value y, or ErrNotFound.
func (s *Store) Get(digest Digest, y *big.Int) (*Record, error) {
	if y == nil {
		return nil, errors.New("public value required")
	}
	r := &Record{}
	if err := s.bolt.Get(recordKey(digest, y), r); err != nil {
		return nil, err
	}
	return r, nil
}

// Find returns the records of all provers for the content digest.
func (s *Store) Find(digest Digest) ([]Record, error) {
	var records []Record
	query := bolthold.Where("Content").Eq(digest.String()).Index("Content")
	if err := s.bolt.Find(&records, query); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the record for the content digest made with public value y.
func (s *Store) Delete(digest Digest, y *big.Int) error {
	if y == nil {
		return errors.New("public value required")
	}
	return s.bolt.Delete(recordKey(digest, y), &Record{})
}

// List returns all records made with public value y, or all records if y is nil.
func (s *Store) List(y *big.Int) ([]Record, error) {
	var records []Record
	var query *bolthold.Query
	if y != nil {
		query = bolthold.Where("PublicKey").Eq(publicKeyHex(y)).Index("PublicKey")
	}
	if err := s.bolt.Find(&records, query); err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Decode returns the stored proof.
func (r *Record) Decode() (*fiatshamir.Proof, error) {
	proof := &fiatshamir.Proof{}
	if err := proof.UnmarshalBinary(r.Proof); err != nil {
		return nil, err
	}
	return proof, nil
}

// Time returns the time at which the record was stored.
func (r *Record) Time() time.Time {
	return time.Unix(0, r.Created)
}
