package tenant

import "encoding/json"

// SettingsVersion is the current settings schema version. Stored blobs with
// an older version are upgraded to defaults for fields they do not carry.
const SettingsVersion = 1

// Settings is the tagged, versioned tenant configuration. Unknown keys in
// the stored blob are dropped on decode; missing keys receive explicit
// defaults so a partially-written blob can never disable receipts or leave
// the currency empty by accident.
type Settings struct {
	Version          int    `json:"version"`
	Locale           string `json:"locale"`
	Currency         string `json:"currency"`
	Timezone         string `json:"timezone"`
	ContactEmail     string `json:"contact_email,omitempty"`
	DonationReceipts bool   `json:"donation_receipts"`
}

// DefaultSettings returns the settings applied to freshly provisioned
// tenants and used as the defaulting base when decoding stored blobs.
func DefaultSettings() Settings {
	return Settings{
		Version:          SettingsVersion,
		Locale:           "en",
		Currency:         "EUR",
		Timezone:         "UTC",
		DonationReceipts: true,
	}
}

// UnmarshalJSON decodes a stored settings blob, filling defaults for any
// missing keys. A null or empty blob yields DefaultSettings.
func (s *Settings) UnmarshalJSON(data []byte) error {
	*s = DefaultSettings()
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	type alias Settings
	a := alias(*s)
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Locale == "" {
		a.Locale = "en"
	}
	if a.Currency == "" {
		a.Currency = "EUR"
	}
	if a.Timezone == "" {
		a.Timezone = "UTC"
	}
	a.Version = SettingsVersion
	*s = Settings(a)
	return nil
}

// ThemeVersion is the current theme schema version.
const ThemeVersion = 1

// Theme holds the tenant-facing presentation configuration used by the
// public donation pages. It deliberately carries only recognized keys.
type Theme struct {
	Version      int    `json:"version"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// DefaultTheme returns the theme applied to freshly provisioned tenants.
func DefaultTheme() Theme {
	return Theme{
		Version:      ThemeVersion,
		PrimaryColor: "#1f6feb",
		AccentColor:  "#f2994a",
	}
}

// UnmarshalJSON decodes a stored theme blob, filling defaults for missing keys.
func (t *Theme) UnmarshalJSON(data []byte) error {
	*t = DefaultTheme()
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	type alias Theme
	a := alias(*t)
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.PrimaryColor == "" {
		a.PrimaryColor = "#1f6feb"
	}
	if a.AccentColor == "" {
		a.AccentColor = "#f2994a"
	}
	a.Version = ThemeVersion
	*t = Theme(a)
	return nil
}
