package domain

// ThemeVariantCount is the number of presentation variants:
// default, dark and colorful.
const ThemeVariantCount = 3

type Preferences struct {
	ThemeVariant int `json:"themeVariant"`
}

func DefaultPreferences() Preferences {
	return Preferences{ThemeVariant: 0}
}

type PreferencesPatch struct {
	ThemeVariant *int `json:"themeVariant,omitempty"`
}

func (p PreferencesPatch) Apply(v Preferences) Preferences {
	if p.ThemeVariant != nil {
		v.ThemeVariant = *p.ThemeVariant
	}
	return v
}

// WrapThemeVariant maps any index onto [0, ThemeVariantCount).
func WrapThemeVariant(v int) int {
	v %= ThemeVariantCount
	if v < 0 {
		v += ThemeVariantCount
	}
	return v
}
