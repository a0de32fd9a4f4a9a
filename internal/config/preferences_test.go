package config

import "testing"

func TestPreferences_GetSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: "accent", value: "green", want: "green"},
		{key: "accent", value: "", wantErr: true},
		{key: "code_viewer_theme", value: "xcode", want: "xcode"},
		{key: "code_viewer_font_size", value: "16", want: "16"},
		{key: "code_viewer_font_size", value: "0", wantErr: true},
		{key: "code_viewer_font_size", value: "big", wantErr: true},
		{key: "verbose_import_errors", value: "true", want: "true"},
		{key: "verbose_import_errors", value: "maybe", wantErr: true},
		{key: "import_error_dialog_length", value: "120", want: "120"},
		{key: "import_error_dialog_length", value: "-1", wantErr: true},
		{key: "confirm_before_import", value: "false", want: "false"},
		{key: "search_scope", value: "all", want: "all"},
		{key: "search_scope", value: "everywhere", wantErr: true},
		{key: "no_such_key", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			p := DefaultPreferences()
			before := p

			err := p.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Set(%q, %q) expected error", tt.key, tt.value)
				}
				if p != before {
					t.Errorf("failed Set changed preferences to %+v", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q, %q) error = %v", tt.key, tt.value, err)
			}

			got, err := p.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestPreferenceKeys(t *testing.T) {
	keys := PreferenceKeys()
	if len(keys) != 7 {
		t.Fatalf("len(PreferenceKeys()) = %d, want 7", len(keys))
	}

	p := DefaultPreferences()
	for _, k := range keys {
		if _, err := p.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
}
