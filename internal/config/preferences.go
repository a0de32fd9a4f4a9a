package config

import (
	"fmt"
	"sort"
	"strconv"
)

// Preferences are the user-tunable settings persisted in the config file.
type Preferences struct {
	Accent              string `toml:"accent"`
	CodeViewerTheme     string `toml:"code_viewer_theme"`
	CodeViewerFontSize  int    `toml:"code_viewer_font_size"`
	VerboseImportErrors bool   `toml:"verbose_import_errors"`
	ImportErrorLength   int    `toml:"import_error_dialog_length"`
	ConfirmBeforeImport bool   `toml:"confirm_before_import"`
	SearchScope         string `toml:"search_scope"`
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		Accent:              "blue",
		CodeViewerTheme:     "default",
		CodeViewerFontSize:  12,
		VerboseImportErrors: false,
		ImportErrorLength:   1000,
		ConfirmBeforeImport: true,
		SearchScope:         "selected",
	}
}

// preference binds a key to its accessors on Preferences.
type preference struct {
	get func(p *Preferences) string
	set func(p *Preferences, v string) error
}

var preferences = map[string]preference{
	"accent": {
		get: func(p *Preferences) string { return p.Accent },
		set: func(p *Preferences, v string) error {
			if v == "" {
				return fmt.Errorf("accent cannot be empty")
			}
			p.Accent = v
			return nil
		},
	},
	"code_viewer_theme": {
		get: func(p *Preferences) string { return p.CodeViewerTheme },
		set: func(p *Preferences, v string) error {
			if v == "" {
				return fmt.Errorf("theme cannot be empty")
			}
			p.CodeViewerTheme = v
			return nil
		},
	},
	"code_viewer_font_size": {
		get: func(p *Preferences) string { return strconv.Itoa(p.CodeViewerFontSize) },
		set: func(p *Preferences, v string) error {
			n, err := positiveInt(v)
			if err != nil {
				return err
			}
			p.CodeViewerFontSize = n
			return nil
		},
	},
	"verbose_import_errors": {
		get: func(p *Preferences) string { return strconv.FormatBool(p.VerboseImportErrors) },
		set: func(p *Preferences, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean %q", v)
			}
			p.VerboseImportErrors = b
			return nil
		},
	},
	"import_error_dialog_length": {
		get: func(p *Preferences) string { return strconv.Itoa(p.ImportErrorLength) },
		set: func(p *Preferences, v string) error {
			n, err := positiveInt(v)
			if err != nil {
				return err
			}
			p.ImportErrorLength = n
			return nil
		},
	},
	"confirm_before_import": {
		get: func(p *Preferences) string { return strconv.FormatBool(p.ConfirmBeforeImport) },
		set: func(p *Preferences, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean %q", v)
			}
			p.ConfirmBeforeImport = b
			return nil
		},
	},
	"search_scope": {
		get: func(p *Preferences) string { return p.SearchScope },
		set: func(p *Preferences, v string) error {
			if v != "selected" && v != "all" {
				return fmt.Errorf("search scope must be \"selected\" or \"all\", got %q", v)
			}
			p.SearchScope = v
			return nil
		},
	},
}

func positiveInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive, got %d", n)
	}
	return n, nil
}

// PreferenceKeys returns every preference key in sorted order.
func PreferenceKeys() []string {
	keys := make([]string, 0, len(preferences))
	for k := range preferences {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of the preference named key.
func (p *Preferences) Get(key string) (string, error) {
	pref, ok := preferences[key]
	if !ok {
		return "", fmt.Errorf("unknown preference %q", key)
	}
	return pref.get(p), nil
}

// Set parses value and assigns it to the preference named key.
func (p *Preferences) Set(key, value string) error {
	pref, ok := preferences[key]
	if !ok {
		return fmt.Errorf("unknown preference %q", key)
	}
	if err := pref.set(p, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
