package mpls

// Stream coding types used in STN table attributes.
const (
	CodingMPEG1Video = 0x01
	CodingMPEG2Video = 0x02
	CodingMPEG1Audio = 0x03
	CodingMPEG2Audio = 0x04
	CodingH264       = 0x1b
	CodingHEVC       = 0x24
	CodingLPCM       = 0x80
	CodingAC3        = 0x81
	CodingDTS        = 0x82
	CodingTrueHD     = 0x83
	CodingAC3Plus    = 0x84
	CodingDTSHD      = 0x85
	CodingDTSHDMA    = 0x86
	CodingPG         = 0x90
	CodingIG         = 0x91
	CodingTextST     = 0x92
	CodingAC3PlusSec = 0xa1
	CodingDTSHDSec   = 0xa2
	CodingVC1        = 0xea
)

// Header holds the fixed-size movie playlist header.
type Header struct {
	TypeIndicator      string
	Version            string
	PlaylistStart      uint32
	PlaylistMarkStart  uint32
	ExtensionDataStart uint32
}

// Playlist is the play item table.
type Playlist struct {
	Length       uint32
	SubPathCount uint16
	PlayItems    []PlayItem
}

// PlayItem references one clip segment of the playlist.
type PlayItem struct {
	ClipInformationFilename *string
	ClipCodecIdentifier     *string
	IsMultiAngle            bool
	ConnectionCondition     uint8
	RefToSTCID              uint8
	InTime                  *uint32
	OutTime                 *uint32
	StillMode               uint8
	StillTime               uint16
	Angles                  []Angle
	STNTable                *STNTable
}

// Angle is an alternate clip for multi-angle play items.
type Angle struct {
	ClipInformationFilename string
	ClipCodecIdentifier     string
	RefToSTCID              uint8
}

// STNTable is the stream number table of a play item.
type STNTable struct {
	Length              uint16
	PrimaryVideoStreams []Stream
	PrimaryAudioStreams []Stream
	PGStreams           []Stream
	IGStreams           []Stream
	SecondaryAudioCount uint8
	SecondaryVideoCount uint8
	PIPPGCount          uint8
}

// Stream pairs a stream entry with its attributes.
type Stream struct {
	Entry      StreamEntry
	Attributes StreamAttributes
}

// StreamEntry locates the elementary stream.
type StreamEntry struct {
	Type      uint8
	PID       uint16
	SubPathID uint8
	SubClipID uint8
}

// StreamAttributes describes the coding of a stream. FrameRate is only set
// for video streams.
type StreamAttributes struct {
	CodingType    uint8
	VideoFormat   uint8
	FrameRate     *uint8
	AudioFormat   uint8
	SampleRate    uint8
	CharacterCode uint8
	Language      string
}

// MarkTable is the playlist mark table.
type MarkTable struct {
	Length uint32
	Marks  []Mark
}

// Mark types.
const (
	MarkTypeEntry = 0x01
	MarkTypeLink  = 0x02
)

// Mark is one playlist mark (usually a chapter entry point).
type Mark struct {
	Type            uint8
	RefToPlayItemID uint16
	Timestamp       uint32
	EntryESPID      uint16
	Duration        uint32
}

// File is a decoded playlist. Playlist and Marks are nil when the
// corresponding table is absent.
type File struct {
	Header   Header
	Playlist *Playlist
	Marks    *MarkTable
}
