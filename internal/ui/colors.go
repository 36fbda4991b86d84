package ui

// ColorReset returns the sequence that clears formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorPrimary returns the accent color.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorDigest returns the digest highlight color.
func ColorDigest() string { return GetCurrentTheme().Digest }

// ColorMuted returns the color for secondary information.
func ColorMuted() string { return GetCurrentTheme().Muted }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorBold returns the bold sequence.
func ColorBold() string { return GetCurrentTheme().Bold }
