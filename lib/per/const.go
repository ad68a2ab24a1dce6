package per

const (
	// MAX_CONSTRAINED_LENGTH is the smallest length bound treated as
	// unconstrained: a length determinant is encoded as a constrained
	// whole number only when its upper bound is below 64K.
	// ITU-T X.691 11.9.3.3 / 11.9.4.1
	MAX_CONSTRAINED_LENGTH = 65536

	// FRAGMENT_SIZE is the 16K unit of the fragmented length form.
	// Fragments carry 1 to 4 units (16K/32K/48K/64K) at a time.
	// ITU-T X.691 11.9.3.8
	FRAGMENT_SIZE = 16384
)
