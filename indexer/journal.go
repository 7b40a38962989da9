// Package indexer persists protocol events to a bbolt journal and runs
// the permissionless withdrawal processor: the core only records state
// transitions, everything durable or periodic lives here.
package indexer

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/vault"
)

var (
	bucketJournal  = []byte("journal")
	bucketAccounts = []byte("accounts")
)

func init() {
	gob.Register(events.Deposit{})
	gob.Register(events.Withdraw{})
	gob.Register(events.WithdrawalQueued{})
	gob.Register(events.WithdrawalProcessed{})
	gob.Register(events.Donate{})
	gob.Register(events.ProjectFunded{})
	gob.Register(events.DonationBpsUpdated{})
	gob.Register(events.GovernanceUpdated{})
	gob.Register(events.YieldProviderConfigured{})
	gob.Register(events.DomeCreated{})
}

// Entry is one journaled protocol event.
type Entry struct {
	Seq   uint64
	Dome  ledger.Address
	Time  time.Time
	Event events.Event
}

// Journal wraps a bbolt database holding the event journal and the latest
// per-user accounting snapshots.
type Journal struct {
	db *bbolt.DB
}

// OpenJournal opens or creates the bbolt database at dbPath. The parent
// directory is created if it does not exist.
func OpenJournal(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("indexer: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("indexer: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketJournal, bucketAccounts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("journal: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("indexer: create buckets: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

// seqKey encodes a sequence number as an 8-byte big-endian key so the
// journal iterates in append order.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// accountKey namespaces an accounting snapshot by dome and user address.
func accountKey(dome, user ledger.Address) []byte {
	k := make([]byte, 0, 40)
	k = append(k, dome[:]...)
	k = append(k, user[:]...)
	return k
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Append journals one event and returns its assigned sequence number.
func (j *Journal) Append(dome ledger.Address, at time.Time, e events.Event) (uint64, error) {
	var seq uint64
	err := j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketJournal)
		n, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("journal: next sequence: %w", err)
		}
		seq = n

		data, err := encodeGob(Entry{Seq: seq, Dome: dome, Time: at, Event: e})
		if err != nil {
			return fmt.Errorf("journal: encode entry: %w", err)
		}
		if err := b.Put(seqKey(seq), data); err != nil {
			return fmt.Errorf("journal: put entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// Entries returns journaled entries in append order, filtered by the
// optional dome and event type, newest truncated to limit when limit > 0.
func (j *Journal) Entries(filterDome *ledger.Address, filterType events.Type, limit int) ([]Entry, error) {
	var out []Entry
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketJournal).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var e Entry
			if err := decodeGob(v, &e); err != nil {
				return fmt.Errorf("journal: decode entry %x: %w", k, err)
			}
			if filterDome != nil && e.Dome != *filterDome {
				continue
			}
			if filterType != "" && e.Event.EventType() != filterType {
				continue
			}
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Len returns the number of journaled entries.
func (j *Journal) Len() (int, error) {
	var n int
	err := j.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketJournal).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// PutAccounting stores the latest accounting snapshot for a user in a dome.
func (j *Journal) PutAccounting(dome, user ledger.Address, acc vault.Accounting) error {
	return j.db.Update(func(tx *bbolt.Tx) error {
		data, err := encodeGob(acc)
		if err != nil {
			return fmt.Errorf("journal: encode accounting: %w", err)
		}
		if err := tx.Bucket(bucketAccounts).Put(accountKey(dome, user), data); err != nil {
			return fmt.Errorf("journal: put accounting: %w", err)
		}
		return nil
	})
}

// Accounting returns the stored accounting snapshot for a user in a dome.
func (j *Journal) Accounting(dome, user ledger.Address) (vault.Accounting, bool, error) {
	var (
		acc   vault.Accounting
		found bool
	)
	err := j.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get(accountKey(dome, user))
		if data == nil {
			return nil
		}
		found = true
		return decodeGob(data, &acc)
	})
	if err != nil {
		return vault.Accounting{}, false, fmt.Errorf("indexer: read accounting: %w", err)
	}
	return acc, found, nil
}
