package core

// Format tags a container format (spec §6).
type Format int

const (
	PNG Format = iota
	JPEG
	GIF
	WEBP
	PPM
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case GIF:
		return "GIF"
	case WEBP:
		return "WEBP"
	case PPM:
		return "PPM"
	default:
		return "Unknown"
	}
}
