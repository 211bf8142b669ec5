package encryptedattr

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"
)

// recordsBucket holds one nested bucket per record ID.
var recordsBucket = []byte("records")

// BoltStore persists records in a bbolt database: one nested bucket per
// record ID, attribute values CBOR-encoded. Encrypted payloads, IVs, and
// salts land on disk exactly as the pipeline wrote them; the store never
// interprets them.
type BoltStore struct {
	db *bolt.DB
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("encryptedattr: open store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("encryptedattr: init store: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (bs *BoltStore) Close() error {
	return bs.db.Close()
}

// Record returns the record stored under id. Creating the handle does no
// I/O; attributes read and write through to the database individually.
func (bs *BoltStore) Record(id string) *BoltRecord {
	return &BoltRecord{store: bs, id: id}
}

// Delete removes the record and all its attributes. Deleting an absent
// record is a no-op.
func (bs *BoltStore) Delete(id string) error {
	return bs.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(recordsBucket)
		if root.Bucket([]byte(id)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(id))
	})
}

// IDs returns all stored record IDs, sorted alphabetically.
func (bs *BoltStore) IDs() ([]string, error) {
	var ids []string
	err := bs.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEachBucket(func(k []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// BoltRecord is a Record backed by one BoltStore bucket. Every Attribute
// call reads the current database state, so an external write followed by
// Model.Reload is immediately visible.
type BoltRecord struct {
	store *BoltStore
	id    string
}

// ID returns the record's bucket key.
func (r *BoltRecord) ID() string {
	return r.id
}

func (r *BoltRecord) Attribute(name string) (any, error) {
	var out any
	err := r.store.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket).Bucket([]byte(r.id))
		if b == nil {
			return nil
		}
		data := b.Get([]byte(name))
		if data == nil {
			return nil
		}
		// Decode inside the transaction; the slice is only valid here.
		return cborDecMode().Unmarshal(data, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("encryptedattr: read %s/%s: %w", r.id, name, err)
	}
	return out, nil
}

func (r *BoltRecord) SetAttribute(name string, value any) error {
	data, err := cbor.Marshal(value)
	if err != nil {
		return fmt.Errorf("encryptedattr: encode %s/%s: %w", r.id, name, err)
	}
	err = r.store.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(recordsBucket).CreateBucketIfNotExists([]byte(r.id))
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("encryptedattr: write %s/%s: %w", r.id, name, err)
	}
	return nil
}

// Attributes returns the record's stored attribute names, sorted.
func (r *BoltRecord) Attributes() ([]string, error) {
	var names []string
	err := r.store.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket).Bucket([]byte(r.id))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}
