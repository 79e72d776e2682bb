// Package timecode converts between Blu-ray playlist ticks, seconds, frame
// numbers and human timestamps.
//
// Every conversion is carried out on exact rationals (math/big) so fractional
// NTSC rates such as 24000/1001 never accumulate floating point drift.
//
// Conventions:
//   - Playlist timestamps are 45 kHz ticks (TicksPerSecond).
//   - Seconds to frame rounds half to even.
//   - Timestamps truncate toward zero at the requested precision (0, 3, 6 or 9
//     fractional digits), so coarser renderings never disagree with finer ones
//     on the integer-second portion.
package timecode
