package participant

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Bootstrap is the raw session input read from an external source.
// Empty fields are unspecified.
type Bootstrap struct {
	ParticipantID string `env:"SHOP_UID"`
	Variant       string `env:"SHOP_VARIANT"`
}

func (b Bootstrap) complete() bool {
	return b.ParticipantID != "" && b.Variant != ""
}

func (b Bootstrap) normalized() Bootstrap {
	return Bootstrap{
		ParticipantID: strings.TrimSpace(b.ParticipantID),
		Variant:       strings.TrimSpace(b.Variant),
	}
}

// Source reads session bootstrap data.
type Source interface {
	Lookup() (Bootstrap, error)
}

// StaticSource returns fixed values, such as those from flags or config.
type StaticSource Bootstrap

// Lookup returns the fixed values.
func (s StaticSource) Lookup() (Bootstrap, error) {
	return Bootstrap(s).normalized(), nil
}

// QuerySource reads the uid and variant query parameters of a page URL.
type QuerySource struct {
	URL string
}

// Lookup parses the URL. Only uid and variant are decoded, so a malformed
// unrelated parameter does not discard them. Pairs may be separated by &
// or ;. The first occurrence of each key wins. An undecodable uid is an
// error; an undecodable variant is left unspecified.
func (s QuerySource) Lookup() (Bootstrap, error) {
	raw := strings.TrimSpace(s.URL)
	if raw == "" {
		return Bootstrap{}, nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return Bootstrap{}, fmt.Errorf("parse bootstrap url: %w", err)
	}

	var (
		b                Bootstrap
		uidErr           error
		seenUID, seenVar bool
	)
	for _, pair := range strings.FieldsFunc(parsed.RawQuery, func(r rune) bool { return r == '&' || r == ';' }) {
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		switch {
		case key == "uid" && !seenUID:
			seenUID = true
			b.ParticipantID, uidErr = url.QueryUnescape(value)
		case key == "variant" && !seenVar:
			seenVar = true
			if decoded, err := url.QueryUnescape(value); err == nil {
				b.Variant = decoded
			}
		}
	}
	if uidErr != nil {
		b.ParticipantID = ""
		return b.normalized(), fmt.Errorf("parse bootstrap query: %w", uidErr)
	}
	return b.normalized(), nil
}

// EnvSource reads SHOP_UID and SHOP_VARIANT. A nil Environment reads the
// process environment.
type EnvSource struct {
	Environment map[string]string
}

// Lookup parses the environment.
func (s EnvSource) Lookup() (Bootstrap, error) {
	var b Bootstrap
	opts := env.Options{}
	if s.Environment != nil {
		opts.Environment = s.Environment
	}
	if err := env.ParseWithOptions(&b, opts); err != nil {
		return Bootstrap{}, fmt.Errorf("parse env: %w", err)
	}
	return b.normalized(), nil
}

// Chain consults sources in order. Each field takes the value of the first
// source that specifies it. A failing source is skipped; its error is
// returned only when some field stays unspecified.
type Chain []Source

// Lookup merges the sources.
func (c Chain) Lookup() (Bootstrap, error) {
	var (
		merged Bootstrap
		errs   []error
	)
	for _, src := range c {
		if src == nil {
			continue
		}
		b, err := src.Lookup()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if merged.ParticipantID == "" {
			merged.ParticipantID = b.ParticipantID
		}
		if merged.Variant == "" {
			merged.Variant = b.Variant
		}
		if merged.complete() {
			return merged, nil
		}
	}
	return merged, errors.Join(errs...)
}
