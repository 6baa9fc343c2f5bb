package models

import (
	"encoding/json"
	"fmt"
)

// Section is one top-level named group of the settings document.
type Section map[string]any

// SectionNames lists the persisted sections in a stable order.
var SectionNames = []string{KeyBehaviour, KeyAppearance, KeyNewtab}

// SettingsDocument is the in-memory working copy of the synced settings.
//
// It lives only for the duration of one lifecycle event.
type SettingsDocument struct {
	Behaviour  Section `json:"behaviour"`
	Appearance Section `json:"appearance"`
	Newtab     Section `json:"newtab"`
}

// NewSettingsDocument returns a document with every section present and empty.
func NewSettingsDocument() *SettingsDocument {
	d := &SettingsDocument{}
	d.Normalize()
	return d
}

// DecodeSettings builds a document from the raw store contents and normalizes it.
// Keys other than the three sections are ignored.
func DecodeSettings(raw map[string][]byte) (*SettingsDocument, error) {
	d := &SettingsDocument{}
	for _, name := range SectionNames {
		data, ok := raw[name]
		if !ok || len(data) == 0 {
			continue
		}

		var section Section
		if err := json.Unmarshal(data, &section); err != nil {
			return nil, fmt.Errorf("failed to decode section %s: %w", name, err)
		}
		*d.section(name) = section
	}
	d.Normalize()
	return d, nil
}

// Normalize fills in missing sections and the nested appearance.styles mapping.
func (d *SettingsDocument) Normalize() {
	if d.Behaviour == nil {
		d.Behaviour = Section{}
	}
	if d.Appearance == nil {
		d.Appearance = Section{}
	}
	if d.Newtab == nil {
		d.Newtab = Section{}
	}
	if styles, ok := d.Appearance["styles"]; !ok || styles == nil {
		d.Appearance["styles"] = map[string]any{}
	}
}

// Styles returns the nested appearance.styles mapping.
//
// A stored styles value that is not a mapping is left untouched and reported as an error.
func (d *SettingsDocument) Styles() (map[string]any, error) {
	d.Normalize()
	styles, ok := d.Appearance["styles"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("appearance.styles is %T, not a mapping", d.Appearance["styles"])
	}
	return styles, nil
}

// Section returns the named section, or nil for an unknown name.
func (d *SettingsDocument) Section(name string) Section {
	if p := d.section(name); p != nil {
		return *p
	}
	return nil
}

// Sections returns the three sections keyed by name.
func (d *SettingsDocument) Sections() map[string]Section {
	d.Normalize()
	return map[string]Section{
		KeyBehaviour:  d.Behaviour,
		KeyAppearance: d.Appearance,
		KeyNewtab:     d.Newtab,
	}
}

// Clone returns a deep copy made through a JSON round trip.
func (d *SettingsDocument) Clone() (*SettingsDocument, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	out := &SettingsDocument{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	out.Normalize()
	return out, nil
}

func (d *SettingsDocument) section(name string) *Section {
	switch name {
	case KeyBehaviour:
		return &d.Behaviour
	case KeyAppearance:
		return &d.Appearance
	case KeyNewtab:
		return &d.Newtab
	default:
		return nil
	}
}
