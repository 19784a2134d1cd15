package presetboard

// DefaultPresets returns the presets a new store starts with.
func DefaultPresets() *Presets {
	ps := NewPresets()
	ps.Set("Work", Preset{
		Description:   "Productivity and development workspace",
		Apps:          []string{"Safari", "Xcode", "Terminal", "Slack", "Notes"},
		ClosePrevious: true,
	})
	ps.Set("School", Preset{
		Description:   "Educational and learning workspace",
		Apps:          []string{"Safari", "Pages", "Keynote", "Numbers", "Mail"},
		ClosePrevious: true,
	})
	ps.Set("Gaming", Preset{
		Description:   "Gaming and entertainment workspace",
		Apps:          []string{"Steam", "Discord", "Spotify", "Safari"},
		ClosePrevious: false,
	})
	ps.Set("Relax", Preset{
		Description:   "Relaxation and social media workspace",
		Apps:          []string{"Safari", "Messages", "Photos", "Music", "TV"},
		ClosePrevious: false,
	})
	return ps
}
