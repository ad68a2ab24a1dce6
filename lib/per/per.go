package per

// EncodeBoolean encodes a BOOLEAN value to a complete, padded octet
// string in the chosen variant.
func EncodeBoolean(value, aligned bool) ([]byte, error) {
	encoder := NewEncoder(aligned)
	if err := encoder.EncodeBoolean(value); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// EncodeInteger encodes an INTEGER value to a complete, padded octet
// string. Nil bounds are absent bounds; an upper bound alone implies a
// lower bound of zero.
func EncodeInteger(value int64, aligned bool, lb, ub *int64, extensible bool) ([]byte, error) {
	constraint, err := NewConstraint(lb, ub, extensible)
	if err != nil {
		return nil, err
	}
	encoder := NewEncoder(aligned)
	if err := encoder.EncodeInteger(value, constraint); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// EncodeOctetString encodes an OCTET STRING value to a complete,
// padded octet string. The bounds constrain the size in octets and
// must be non-negative; nil bounds are absent bounds.
func EncodeOctetString(value []byte, aligned bool, lb, ub *int64, extensible bool) ([]byte, error) {
	constraint, err := NewSizeConstraint(lb, ub, extensible)
	if err != nil {
		return nil, err
	}
	encoder := NewEncoder(aligned)
	if err := encoder.EncodeOctetString(value, constraint); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}
