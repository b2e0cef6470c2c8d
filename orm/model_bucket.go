package orm

import (
	"reflect"
	"regexp"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	payermint.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operate on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db payermint.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns no error if an entity with given primary key exists and
	// ErrNotFound if it does not.
	Has(db payermint.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database under the given key.
	Put(db payermint.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db payermint.KVStore, key []byte) error
}

// isBucketName verifies that the bucket name conforms to the expected
// format. Bucket names are part of every database key and must be short and
// unique within the application.
var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// NewModelBucket returns a ModelBucket instance that is operating directly
// on the KVStore, using the bucket name as the key namespace prefix. The
// model instance is used only to verify the type of loaded entities.
func NewModelBucket(name string, model Model) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return &modelBucket{
		prefix: []byte(name + ":"),
		model:  reflect.TypeOf(model),
	}
}

type modelBucket struct {
	prefix []byte
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey returns the raw database key for the given entity key.
func (mb *modelBucket) dbKey(key []byte) []byte {
	raw := make([]byte, 0, len(mb.prefix)+len(key))
	raw = append(raw, mb.prefix...)
	return append(raw, key...)
}

func (mb *modelBucket) One(db payermint.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%v cannot be represented as %T", mb.model, dest)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal into %T", dest)
	}
	return nil
}

func (mb *modelBucket) Has(db payermint.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db payermint.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "%v cannot store %T", mb.model, m)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db payermint.KVStore, key []byte) error {
	raw := mb.dbKey(key)
	ok, err := db.Has(raw)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return db.Delete(raw)
}
