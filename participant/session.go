// Package participant resolves who is taking part in a session and which
// variant they see.
package participant

const (
	// MissingID is used when no source specifies a participant id.
	MissingID = "NO_UID_FOUND"
	// ParseErrorID is used when the bootstrap source itself fails.
	ParseErrorID = "URL_PARSE_ERROR"
)

// Session is the immutable identity of one experiment run.
type Session struct {
	id      string
	variant Variant
	err     error
}

// NewSession builds a session from already resolved values.
func NewSession(id string, variant Variant) Session {
	if variant != VariantA {
		variant = VariantB
	}
	return Session{id: id, variant: variant}
}

// ID returns the participant id.
func (s Session) ID() string {
	return s.id
}

// Variant returns the assigned variant.
func (s Session) Variant() Variant {
	return s.variant
}

// Err returns the source failure that forced defaults, if any.
func (s Session) Err() error {
	return s.err
}

// Resolve reads src once and applies the defaults. It never fails: a
// missing id becomes MissingID, a missing variant becomes B, and a source
// error substitutes ParseErrorID for an id no source provided.
func Resolve(src Source) Session {
	var (
		b   Bootstrap
		err error
	)
	if src != nil {
		b, err = src.Lookup()
		b = b.normalized()
	}

	id := b.ParticipantID
	if id == "" {
		id = MissingID
		if err != nil {
			id = ParseErrorID
		}
	}

	session := NewSession(id, ParseVariant(b.Variant))
	session.err = err
	return session
}
