package analysis

// UnknownSignature is shown when no signature is available for a function.
const UnknownSignature = "(...)"

// SignatureProvider supplies human-readable call signatures by function
// name. Providers are optional: analysis never depends on one being
// present.
type SignatureProvider interface {
	Signature(name string) (string, bool)
}

// NoSignatures is the default provider. It knows no signatures.
type NoSignatures struct{}

// Signature implements SignatureProvider.
func (NoSignatures) Signature(string) (string, bool) {
	return "", false
}

// SignatureMap is a provider backed by a fixed name to signature map.
type SignatureMap map[string]string

// Signature implements SignatureProvider.
func (m SignatureMap) Signature(name string) (string, bool) {
	sig, ok := m[name]
	if !ok || sig == "" {
		return "", false
	}
	return sig, true
}

// ChainSignatures consults each provider in order and returns the first
// signature found.
type ChainSignatures []SignatureProvider

// Signature implements SignatureProvider.
func (c ChainSignatures) Signature(name string) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if sig, ok := p.Signature(name); ok {
			return sig, true
		}
	}
	return "", false
}

// lookupSignature asks the provider for a signature, degrading to
// UnknownSignature when the provider has none or fails.
func lookupSignature(p SignatureProvider, name string) (sig string) {
	defer func() {
		if r := recover(); r != nil {
			sig = UnknownSignature
		}
	}()
	if p == nil {
		return UnknownSignature
	}
	if s, ok := p.Signature(name); ok {
		return s
	}
	return UnknownSignature
}
