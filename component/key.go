package component

import (
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Key identifies a provided value. Keys made by NewKey with the same name
// are equal; keys made by Symbol never collide with anything else.
type Key struct {
	name string
	id   uint64
}

var symbolSeq uint64

func NewKey(name string) Key {
	return Key{name: name, id: xxhash.Sum64String(name)}
}

func Symbol(name string) Key {
	n := atomic.AddUint64(&symbolSeq, 1)
	return Key{
		name: name,
		id:   xxhash.Sum64String("symbol\x00" + name + "\x00" + strconv.FormatUint(n, 10)),
	}
}

func (k Key) Name() string {
	return k.name
}

func (k Key) IsZero() bool {
	return k.id == 0 && k.name == ""
}

func (k Key) String() string {
	return k.name
}
