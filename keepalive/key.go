package keepalive

import "strconv"

// KeySeparator joins the constructor identity and the tag in derived keys.
const KeySeparator = "::"

// Keyer derives cache keys from descriptors.
//
// Contract:
// - Determinism: equal explicit keys, or equal constructor/tag pairs, yield equal keys.
// - Purity: implementations must not consult the cache.
type Keyer interface {
	Key(d *Descriptor) string
}

// KeyerFunc adapts a function to Keyer.
type KeyerFunc func(d *Descriptor) string

// Key implements Keyer.
func (f KeyerFunc) Key(d *Descriptor) string { return f(d) }

// DefaultKeyer implements the standard derivation, see DeriveKey.
type DefaultKeyer struct{}

// Key implements Keyer.
func (DefaultKeyer) Key(d *Descriptor) string { return DeriveKey(d) }

// DeriveKey returns the explicit key verbatim when set. Otherwise it returns
// the constructor ID, followed by "::"+tag when the tag is non-empty; the tag
// disambiguates components registered under different tags that share one
// constructor. A nil component counts as ID 0.
func DeriveKey(d *Descriptor) string {
	if d == nil {
		return ""
	}
	if d.Key != "" {
		return d.Key
	}
	var id uint64
	if d.Component != nil {
		id = d.Component.ID
	}
	k := strconv.FormatUint(id, 10)
	if d.Tag != "" {
		k += KeySeparator + d.Tag
	}
	return k
}

// shapeOf returns the owning request shape of d: constructor identity and
// tag, ignoring any explicit key. Two requests with the same shape render
// the same child slot.
func shapeOf(d *Descriptor) string {
	if d == nil {
		return ""
	}
	var id uint64
	if d.Component != nil {
		id = d.Component.ID
	}
	return strconv.FormatUint(id, 10) + KeySeparator + d.Tag
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = DefaultKeyer{}
