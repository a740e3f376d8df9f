package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// OrderedIDKey returns 8-byte big-endian representation of the identifier.
// Storage keys ending with it are iterated in identifier order.
func OrderedIDKey(id int) []byte {
	return []byte{
		byte(id>>56&0xff),
		byte(id>>48&0xff),
		byte(id>>40&0xff),
		byte(id>>32&0xff),
		byte(id>>24&0xff),
		byte(id>>16&0xff),
		byte(id>>8&0xff),
		byte(id & 0xff),
	}
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// CurrentID returns the last identifier allocated by NextID for the counter
// key or 0 if nothing was allocated yet.
func CurrentID(ctx storage.Context, key any) int {
	raw := storage.Get(ctx, key)
	if raw == nil {
		return 0
	}

	return raw.(int)
}

// NextID increments the counter stored by the key and returns the new value.
// Identifiers start from 1 and are never reused. NextID must be called only
// after all preconditions of the allocating operation are satisfied.
func NextID(ctx storage.Context, key any) int {
	id := CurrentID(ctx, key) + 1
	storage.Put(ctx, key, id)

	return id
}
