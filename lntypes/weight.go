package lntypes

// WeightUnit defines a unit to express the transaction weight. One virtual
// byte corresponds to four weight units, with non-witness bytes counting four
// weight units each and witness bytes one (BIP-141).
type WeightUnit uint64

// ToVB converts a value expressed in weight units to virtual bytes, rounding
// up to the next whole virtual byte.
func (wu WeightUnit) ToVB() VByte {
	return VByte((wu + 3) / 4)
}

// VByte defines a unit to express the virtual size of a transaction.
type VByte uint64

// ToWU converts a value expressed in virtual bytes to weight units.
func (vb VByte) ToWU() WeightUnit {
	return WeightUnit(vb * 4)
}
