package deal

// DefaultTimeoutSeconds applies when instantiation omits a default timeout.
const DefaultTimeoutSeconds uint64 = 3600

// MaxTimeoutUnix is the latest deal timeout, 9999-12-31T23:59:59Z. Later
// instants overflow time.Time comparisons and RFC 3339 formatting.
const MaxTimeoutUnix int64 = 253402300799

// Config is the engine-wide configuration written once at instantiation.
type Config struct {
	// DefaultTimeout is the deal lifetime in seconds used when CreateDeal omits one.
	DefaultTimeout uint64 `json:"default_timeout"`
}
