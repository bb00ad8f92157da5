package v8clone

import "github.com/go-kit/kit/log"

// Codec bundles the configuration an Encode/Decode pair needs: the
// declared wire version, the enabled feature set, the host-object
// delegate, the shared-buffer registry, and a logger — mirroring the
// options bundle pattern the teacher's debug tooling uses for its own
// client construction.
type Codec struct {
	version     uint32
	features    map[Feature]bool
	hostHandler HostObjectHandler
	registry    BufferRegistry
	logger      log.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithVersion pins the declared format version Encode writes in the
// stream header and Decode requires the stream to declare at most.
func WithVersion(version uint32) Option {
	return func(c *Codec) { c.version = version }
}

// WithFeature enables or disables a single named feature.
func WithFeature(f Feature, enabled bool) Option {
	return func(c *Codec) { c.features[f] = enabled }
}

// WithHostObjectHandler installs a handler for KindHostObject values.
// The default handler round-trips a HostObject's raw payload bytes
// without interpreting them.
func WithHostObjectHandler(h HostObjectHandler) Option {
	return func(c *Codec) { c.hostHandler = h }
}

// WithBufferRegistry stores a BufferRegistry on the Codec. The default is
// an in-process memory registry. Encode and Decode do not consult it:
// SharedArrayBuffer and ArrayBufferTransfer values carry only their
// transfer id, which is written and read back unchanged and is not
// looked up in the registry.
func WithBufferRegistry(r BufferRegistry) Option {
	return func(c *Codec) { c.registry = r }
}

// WithLogger installs a go-kit logger for debug-level tracing of tag
// reads/writes. The default is a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(c *Codec) { c.logger = l }
}

// NewCodec returns a Codec configured with Latest version, every
// feature enabled, a raw host-object handler, and a fresh in-memory
// buffer registry, then applies opts in order.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		version:     Latest,
		features:    defaultFeatures(),
		hostHandler: rawHostObjectHandler{},
		registry:    NewMemoryBufferRegistry(),
		logger:      log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode serializes v into a V8 wire-format byte stream.
func (c *Codec) Encode(v Value) ([]byte, error) {
	return c.encode(v)
}

// Decode parses a V8 wire-format byte stream into a Value graph.
func (c *Codec) Decode(data []byte) (Value, error) {
	return c.decode(data)
}
