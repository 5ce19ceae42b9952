package types

// Codec converts between a domain value and its storage record. Each
// persisted entity ships exactly one implementation.
type Codec[D any, R any] interface {
	ToRecord(D) R
	FromRecord(R) D
}
