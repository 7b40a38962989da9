package dome

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/domeprotocol/dome-go/ledger"
)

// DeriveAddress computes the deterministic address a dome will be created
// at for a given creator, cid and registry nonce. Creators can predict
// their dome's address ahead of creation, which lets them name the dome
// itself as a buffer beneficiary.
func DeriveAddress(creator ledger.Address, cid string, nonce uint64) ledger.Address {
	var salt [8]byte
	binary.BigEndian.PutUint64(salt[:], nonce)

	r := hkdf.New(sha256.New, creator[:], salt[:], []byte("dome/address:"+cid))
	var addr ledger.Address
	if _, err := io.ReadFull(r, addr[:]); err != nil {
		// The hkdf reader yields up to 255*32 bytes; a 20-byte read
		// cannot fail.
		panic(err)
	}
	return addr
}
