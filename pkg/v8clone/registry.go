package v8clone

import "github.com/google/uuid"

// BufferRegistry lets SharedArrayBuffer and ArrayBufferTransfer values
// round-trip their backing memory out-of-band, the way V8's embedder
// hands transferred/shared buffers to the host rather than inlining
// them on the wire (spec.md §5 "Shared/transferred buffers travel by
// id, not by value").
type BufferRegistry interface {
	// Register hands data an id good for the lifetime of the registry.
	// Data is not copied; callers must not mutate it afterward.
	Register(data []byte) uint32
	// Lookup returns the bytes previously registered under id.
	Lookup(id uint32) ([]byte, bool)
}

// memoryBufferRegistry is the default BufferRegistry: an in-process
// table keyed by a uuid-derived id, sufficient for a single
// encode/decode pairing within one process.
type memoryBufferRegistry struct {
	byID map[uint32][]byte
}

// NewMemoryBufferRegistry returns a BufferRegistry backed by an
// in-memory map. Ids are the first 32 bits of a freshly minted uuid
// rather than a sequential counter, so two registries created in the
// same process don't agree on an id by coincidence the way two
// sequential counters both starting at 0 would.
func NewMemoryBufferRegistry() BufferRegistry {
	return &memoryBufferRegistry{
		byID: make(map[uint32][]byte),
	}
}

func (reg *memoryBufferRegistry) Register(data []byte) uint32 {
	var id uint32
	for {
		u := uuid.New()
		id = uint32(u[0])<<24 | uint32(u[1])<<16 | uint32(u[2])<<8 | uint32(u[3])
		if _, taken := reg.byID[id]; !taken {
			break
		}
	}
	reg.byID[id] = data
	return id
}

func (reg *memoryBufferRegistry) Lookup(id uint32) ([]byte, bool) {
	data, ok := reg.byID[id]
	return data, ok
}
