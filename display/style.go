package display

import "github.com/lixenwraith/vi-operator/notice"

// Speaker is the operator currently bound to the panel
type Speaker struct {
	Name     string
	Portrait string
	Color    RGB
}

// Style decides how one priority class is presented
// When SpeakerKey is empty the bound operator speaks
type Style struct {
	SpeakerKey string
	Portrait   string
	Color      RGB
	Shake      bool
}

// Palette holds the configurable name colors
type Palette struct {
	Operator   RGB
	Physical   RGB
	Optical    RGB
	ForceField RGB
	CoreTech   RGB
}

// DefaultPalette returns the stock operator panel colors
func DefaultPalette() Palette {
	return Palette{
		Operator:   RGB{120, 130, 230},
		Physical:   RGB{255, 70, 0},
		Optical:    RGB{0, 180, 255},
		ForceField: RGB{240, 70, 130},
		CoreTech:   RGB{0, 255, 255},
	}
}

// Portrait references for equipment modules
const (
	PortraitPhysical   = "oper_mod_physical"
	PortraitOptical    = "oper_mod_optical"
	PortraitForceField = "oper_mod_f_field"
)

// Styles is the per-class presentation table
type Styles map[notice.Priority]Style

// DefaultStyles builds the presentation table for a palette
// Enhancement classes speak as their module; durability warnings shake
func DefaultStyles(p Palette) Styles {
	return Styles{
		notice.PriorityDurability: {Shake: true},
		notice.PriorityEnhancePhysical: {
			SpeakerKey: notice.PriorityEnhancePhysical.String(),
			Portrait:   PortraitPhysical,
			Color:      p.Physical,
		},
		notice.PriorityEnhanceCoreTech: {
			SpeakerKey: notice.PriorityEnhanceCoreTech.String(),
			Portrait:   PortraitPhysical,
			Color:      p.CoreTech,
		},
		notice.PriorityEnhanceOptical: {
			SpeakerKey: notice.PriorityEnhanceOptical.String(),
			Portrait:   PortraitOptical,
			Color:      p.Optical,
		},
		notice.PriorityEnhanceForceField: {
			SpeakerKey: notice.PriorityEnhanceForceField.String(),
			Portrait:   PortraitForceField,
			Color:      p.ForceField,
		},
	}
}

// frame composes the panel frame for n
func (s Styles) frame(n notice.Notification, sp Speaker, names func(string) string) Frame {
	f := Frame{
		Priority:  n.Priority,
		Text:      n.Text,
		Speaker:   sp.Name,
		Portrait:  sp.Portrait,
		NameColor: sp.Color,
	}

	st, ok := s[n.Priority]
	if !ok {
		return f
	}
	f.Shake = st.Shake
	if st.SpeakerKey != "" {
		f.Speaker = st.SpeakerKey
		if names != nil {
			f.Speaker = names(st.SpeakerKey)
		}
		f.Portrait = st.Portrait
		f.NameColor = st.Color
	}
	return f
}
