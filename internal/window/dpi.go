package window

// DisplayScaler reports the content scale of the primary display.
type DisplayScaler interface {
	PrimaryDisplayScale() float32
}

// DPIAwareSize returns s with width and height multiplied by the primary
// display's content scale. Fractional results are truncated. A scale that
// is not positive is treated as 1.
func DPIAwareSize(d DisplayScaler, s Settings) Settings {
	scale := d.PrimaryDisplayScale()
	if scale <= 0 {
		scale = 1
	}
	return Settings{
		Title:  s.Title,
		Width:  int(float32(s.Width) * scale),
		Height: int(float32(s.Height) * scale),
	}
}
