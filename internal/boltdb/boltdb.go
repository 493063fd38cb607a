package boltdb

import (
	"encoding/json"

	"go.etcd.io/bbolt"

	"github.com/cloudgrab/cloudgrab/internal/session"
)

var Buckets = struct {
	Metadata   []byte
	Operations []byte
}{
	Metadata:   []byte("__metadata__"),
	Operations: []byte("operations"),
}

var MetadataKeys = struct {
	Version []byte
}{
	Version: []byte("version"),
}

const currentVersion = 1

type Database interface {
	Close() error

	session.Database
}

type database struct {
	*bbolt.DB
}

func New(path string) (_ Database, err error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) (err error) {
		// Ensure buckets exist
		var metadata *bbolt.Bucket
		if metadata, err = tx.CreateBucketIfNotExists(Buckets.Metadata); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(Buckets.Operations); err != nil {
			return err
		}

		// Get the current version of the database
		var version int
		if versionBytes := metadata.Get(MetadataKeys.Version); versionBytes == nil {
			version = 0
		} else if err = json.Unmarshal(versionBytes, &version); err != nil {
			return err
		}

		// TODO: perform any migration to get to latest version

		// Set the current version of the database
		if versionBytes, err := json.Marshal(currentVersion); err != nil {
			return err
		} else if err = metadata.Put(MetadataKeys.Version, versionBytes); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &database{db}, nil
}

func (d database) ListOperations() (operations []session.OperationRecord, err error) {
	err = d.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(Buckets.Operations)
		return bucket.ForEach(func(k, v []byte) error {
			var record session.OperationRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			} else {
				operations = append(operations, record)
				return nil
			}
		})
	})
	if err != nil {
		return nil, err
	} else {
		return operations, nil
	}
}

func (d database) WriteOperation(record *session.OperationRecord) error {
	if data, err := json.Marshal(record); err != nil {
		return err
	} else {
		err := d.Update(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket(Buckets.Operations)
			if err := bucket.Put([]byte(record.ID), data); err != nil {
				return err
			}
			return nil
		})
		return err
	}
}

func (d database) DeleteOperation(record *session.OperationRecord) error {
	return d.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(Buckets.Operations)
		return bucket.Delete([]byte(record.ID))
	})
}
