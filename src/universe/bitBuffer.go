package universe

//BitBuffer is a byte slice interpreted as a flat bit array
//bit idx lives in byte idx/8 at position idx%8 (least significant bit first)
//indexes past Len()*8 panic with the usual slice bounds error
type BitBuffer []byte

//NewBitBuffer allocates a zeroed buffer large enough to hold bits bits
func NewBitBuffer(bits int) BitBuffer {
	return make(BitBuffer, (bits+7)/8)
}

//Get returns the bit at idx
func (b BitBuffer) Get(idx int) bool {
	return b[idx>>3]&(1<<uint(idx&7)) != 0
}

//Set writes the bit at idx leaving the rest of the byte untouched
func (b BitBuffer) Set(idx int, val bool) {
	mask := byte(1 << uint(idx&7))
	if val {
		b[idx>>3] |= mask
	} else {
		b[idx>>3] &^= mask
	}
}

//Toggle flips the bit at idx
func (b BitBuffer) Toggle(idx int) {
	b[idx>>3] ^= 1 << uint(idx&7)
}

//Len returns the buffer length in bytes
func (b BitBuffer) Len() int {
	return len(b)
}

//Zero clears every bit
func (b BitBuffer) Zero() {
	for i := range b {
		b[i] = 0
	}
}
