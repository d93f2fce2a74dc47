// Package store persists validated transactions. It accepts only
// tx.Checked values, so nothing reaches disk without passing consensus
// validation first.
package store

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"quanta.dev/vm/tx"
)

var (
	bucketTxByID   = []byte("tx_by_id")
	bucketMetaByID = []byte("meta_by_id")
)

// Meta is the per-transaction record kept alongside the canonical bytes.
type Meta struct {
	BlockHeight uint64
	MinFee      uint64
	MaxFee      uint64
}

const metaSize = 3 * 8

func encodeMeta(m Meta) []byte {
	out := make([]byte, metaSize)
	binary.BigEndian.PutUint64(out[0:8], m.BlockHeight)
	binary.BigEndian.PutUint64(out[8:16], m.MinFee)
	binary.BigEndian.PutUint64(out[16:24], m.MaxFee)
	return out
}

func decodeMeta(b []byte) (Meta, error) {
	if len(b) != metaSize {
		return Meta{}, fmt.Errorf("store: meta record is %d bytes, want %d", len(b), metaSize)
	}
	return Meta{
		BlockHeight: binary.BigEndian.Uint64(b[0:8]),
		MinFee:      binary.BigEndian.Uint64(b[8:16]),
		MaxFee:      binary.BigEndian.Uint64(b[16:24]),
	}, nil
}

// DB is a bbolt-backed transaction store keyed by transaction ID.
type DB struct {
	db  *bolt.DB
	log *zap.Logger
}

// Open opens or creates the store at path.
func Open(path string, log *zap.Logger) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("store: path required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}

	if err := bdb.Update(func(btx *bolt.Tx) error {
		for _, b := range [][]byte{bucketTxByID, bucketMetaByID} {
			if _, err := btx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	return &DB{db: bdb, log: log}, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Put stores a validated transaction under its snapshotted ID.
func (d *DB) Put(c *tx.Checked) error {
	if c == nil {
		return fmt.Errorf("store: nil checked transaction")
	}
	id := c.ID()
	raw := tx.Encode(c.Transaction())
	meta := encodeMeta(Meta{
		BlockHeight: c.BlockHeight(),
		MinFee:      c.Fee().MinFee(),
		MaxFee:      c.Fee().MaxFee(),
	})

	err := d.db.Update(func(btx *bolt.Tx) error {
		if err := btx.Bucket(bucketTxByID).Put(id[:], raw); err != nil {
			return err
		}
		return btx.Bucket(bucketMetaByID).Put(id[:], meta)
	})
	if err != nil {
		return fmt.Errorf("store: put %s: %w", id, err)
	}
	d.log.Debug("stored transaction",
		zap.String("id", id.String()),
		zap.Int("bytes", len(raw)),
		zap.Uint64("height", c.BlockHeight()))
	return nil
}

// Get returns the decoded transaction and its record. Found is false when
// the ID is unknown.
func (d *DB) Get(id tx.TxID) (t tx.Transaction, meta Meta, found bool, err error) {
	var raw, rawMeta []byte
	err = d.db.View(func(btx *bolt.Tx) error {
		if v := btx.Bucket(bucketTxByID).Get(id[:]); v != nil {
			raw = append([]byte(nil), v...)
		}
		if v := btx.Bucket(bucketMetaByID).Get(id[:]); v != nil {
			rawMeta = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("store: get %s: %w", id, err)
	}
	if raw == nil {
		return nil, Meta{}, false, nil
	}
	if t, err = tx.Decode(raw); err != nil {
		return nil, Meta{}, false, fmt.Errorf("store: corrupt record %s: %w", id, err)
	}
	if meta, err = decodeMeta(rawMeta); err != nil {
		return nil, Meta{}, false, err
	}
	return t, meta, true, nil
}

// RawBytes returns the stored canonical bytes without decoding.
func (d *DB) RawBytes(id tx.TxID) ([]byte, bool, error) {
	var raw []byte
	err := d.db.View(func(btx *bolt.Tx) error {
		if v := btx.Bucket(bucketTxByID).Get(id[:]); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("store: get %s: %w", id, err)
	}
	return raw, raw != nil, nil
}

// Has reports whether the ID is stored.
func (d *DB) Has(id tx.TxID) (bool, error) {
	var found bool
	err := d.db.View(func(btx *bolt.Tx) error {
		found = btx.Bucket(bucketTxByID).Get(id[:]) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("store: has %s: %w", id, err)
	}
	return found, nil
}

// Delete removes a transaction and its record. Deleting an unknown ID is
// not an error.
func (d *DB) Delete(id tx.TxID) error {
	err := d.db.Update(func(btx *bolt.Tx) error {
		if err := btx.Bucket(bucketTxByID).Delete(id[:]); err != nil {
			return err
		}
		return btx.Bucket(bucketMetaByID).Delete(id[:])
	})
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

// ForEach calls fn for every stored transaction in ID order. Returning an
// error from fn stops the iteration.
func (d *DB) ForEach(fn func(id tx.TxID, raw []byte, meta Meta) error) error {
	return d.db.View(func(btx *bolt.Tx) error {
		metas := btx.Bucket(bucketMetaByID)
		return btx.Bucket(bucketTxByID).ForEach(func(k, v []byte) error {
			var id tx.TxID
			copy(id[:], k)
			meta, err := decodeMeta(metas.Get(k))
			if err != nil {
				return err
			}
			return fn(id, v, meta)
		})
	})
}

// Count returns the number of stored transactions.
func (d *DB) Count() (int, error) {
	var n int
	err := d.db.View(func(btx *bolt.Tx) error {
		n = btx.Bucket(bucketTxByID).Stats().KeyN
		return nil
	})
	return n, err
}
