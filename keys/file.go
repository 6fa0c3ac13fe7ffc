package keys

import (
	"encoding/json"
	"io"
	"os"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/sigma/internal/common"
)

// WriteTo writes the private key as indented JSON.
func (privk *PrivateKey) WriteTo(writer io.Writer) (int64, error) {
	return writeJSON(writer, privk)
}

// WriteToFile writes the private key to a JSON file readable only by its owner. If any
// existing file with the same filename should be overwritten, set forceOverwrite to true.
func (privk *PrivateKey) WriteToFile(filename string, forceOverwrite bool) (int64, error) {
	return writeFile(filename, forceOverwrite, 0600, privk)
}

// WriteTo writes the public key as indented JSON.
func (pubk *PublicKey) WriteTo(writer io.Writer) (int64, error) {
	return writeJSON(writer, pubk)
}

// WriteToFile writes the public key to a JSON file. If any existing file with the same
// filename should be overwritten, set forceOverwrite to true.
func (pubk *PublicKey) WriteToFile(filename string, forceOverwrite bool) (int64, error) {
	return writeFile(filename, forceOverwrite, 0644, pubk)
}

// NewPrivateKeyFromFile reads and validates a private key written by WriteToFile.
func NewPrivateKeyFromFile(filename string) (*PrivateKey, error) {
	privk := new(PrivateKey)
	if err := readFile(filename, privk); err != nil {
		return nil, err
	}
	if err := privk.Validate(); err != nil {
		return nil, err
	}
	return privk, nil
}

// NewPublicKeyFromFile reads and validates a public key written by WriteToFile.
func NewPublicKeyFromFile(filename string) (*PublicKey, error) {
	pubk := new(PublicKey)
	if err := readFile(filename, pubk); err != nil {
		return nil, err
	}
	if err := pubk.Validate(); err != nil {
		return nil, err
	}
	return pubk, nil
}

func writeJSON(writer io.Writer, v interface{}) (int64, error) {
	b, err := json.MarshalIndent(v, "", "   ")
	if err != nil {
		return 0, err
	}
	n, err := writer.Write(append(b, '\n'))
	return int64(n), err
}

func writeFile(filename string, forceOverwrite bool, perm os.FileMode, v interface{}) (int64, error) {
	flags := os.O_RDWR | os.O_CREATE
	if forceOverwrite {
		flags |= os.O_TRUNC
	} else {
		// This should return an error if the file already exists
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(filename, flags, perm)
	if err != nil {
		return 0, err
	}
	defer common.Close(f)
	return writeJSON(f, v)
}

func readFile(filename string, v interface{}) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(b, v); err != nil {
		return errors.WrapPrefix(err, "failed to parse "+filename, 0)
	}
	return nil
}
