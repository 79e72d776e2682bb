package mpls

import "bdindex/internal/timecode"

// FrameRate maps a video stream frame_rate code to its exact rate. Code 0 and
// the reserved codes report false.
func FrameRate(code uint8) (timecode.Rate, bool) {
	switch code {
	case 1:
		return timecode.Film, true
	case 2:
		return timecode.Film24, true
	case 3:
		return timecode.PAL, true
	case 4:
		return timecode.NTSC, true
	case 6:
		return timecode.PAL50, true
	case 7:
		return timecode.NTSC5994, true
	default:
		return timecode.Rate{}, false
	}
}

// IsVideoCoding reports whether coding carries video attributes.
func IsVideoCoding(coding uint8) bool {
	switch coding {
	case CodingMPEG1Video, CodingMPEG2Video, CodingH264, CodingHEVC, CodingVC1:
		return true
	default:
		return false
	}
}
