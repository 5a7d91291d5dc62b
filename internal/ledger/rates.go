package ledger

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rates is the flat per-call rate card. The constants are rough estimates,
// not billing-accurate measurements; the card is loadable from yaml so a real
// token-metered model can replace it without touching callers.
type Rates struct {
	ScreenPerCall     float64 `yaml:"screen_per_call" mapstructure:"screen_per_call"`
	AuditPerCall      float64 `yaml:"audit_per_call" mapstructure:"audit_per_call"`
	TranscribePerCall float64 `yaml:"transcribe_per_call" mapstructure:"transcribe_per_call"`
}

// DefaultRates returns the default flat rate card.
func DefaultRates() Rates {
	return Rates{
		ScreenPerCall:     0.01,
		AuditPerCall:      0.03,
		TranscribePerCall: 0.006,
	}
}

// LoadRates reads a rate card from a yaml file, falling back to defaults for
// zero-valued fields.
func LoadRates(path string) (Rates, error) {
	rates := DefaultRates()

	raw, err := os.ReadFile(path)
	if err != nil {
		return rates, eris.Wrap(err, "ledger: read rates file")
	}

	var loaded Rates
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return rates, eris.Wrap(err, "ledger: parse rates file")
	}

	if loaded.ScreenPerCall > 0 {
		rates.ScreenPerCall = loaded.ScreenPerCall
	}
	if loaded.AuditPerCall > 0 {
		rates.AuditPerCall = loaded.AuditPerCall
	}
	if loaded.TranscribePerCall > 0 {
		rates.TranscribePerCall = loaded.TranscribePerCall
	}

	return rates, nil
}
