package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Use it for private key material once it is no longer needed.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
