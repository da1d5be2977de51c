package codec

// VectorSize returns the encoded size of a counted vector of items
func VectorSize[T Encodable](items []T) int {
	n := VarUint32Size(uint32(len(items)))
	for _, item := range items {
		n += item.EncodedSize()
	}
	return n
}

// WriteVector writes the item count as a varuint32 followed by every item in order
func WriteVector[T Encodable](buf []byte, pos int, items []T) (int, error) {
	next, err := WriteVarUint32(buf, pos, uint32(len(items)))
	if err != nil {
		return pos, err
	}
	for _, item := range items {
		next, err = item.EncodeInto(buf, next)
		if err != nil {
			return pos, err
		}
	}
	return next, nil
}

// ReadVector reads a counted vector. T is the element type; its pointer must be Decodable.
func ReadVector[T any, PT interface {
	*T
	Decodable
}](buf []byte, pos int) ([]T, int, error) {
	count, next, err := ReadVarUint32(buf, pos)
	if err != nil {
		return nil, pos, err
	}

	// Every element takes at least one byte, so the remaining input bounds the allocation
	capHint := len(buf) - next
	if uint64(count) < uint64(capHint) {
		capHint = int(count)
	}

	items := make([]T, 0, capHint)
	for i := uint32(0); i < count; i++ {
		var item T
		next, err = PT(&item).DecodeFrom(buf, next)
		if err != nil {
			return nil, pos, err
		}
		items = append(items, item)
	}
	return items, next, nil
}
