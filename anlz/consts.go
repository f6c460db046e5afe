package anlz

// File header layout (big-endian):
//
//	0x00  4  "PMAI"
//	0x04  4  len_header (28)
//	0x08  4  len_file
//	0x0C  16 four reserved u32 fields
const (
	FileMagic      = "PMAI"
	FileHeaderSize = 28
	TagHeaderSize  = 12
)

// Reserved header values written by rekordbox exports.
const (
	defaultHeaderUnknown1 = 1
	defaultHeaderUnknown2 = 0x10000
	defaultHeaderUnknown3 = 0x10000
)

// Tag type codes.
const (
	CodeBeatGrid             = "PQTZ"
	CodeExtBeatGrid          = "PQT2"
	CodeCueList              = "PCOB"
	CodeExtCueList           = "PCO2"
	CodePath                 = "PPTH"
	CodeVBR                  = "PVBR"
	CodeSongStructure        = "PSSI"
	CodeWaveformPreview      = "PWAV"
	CodeTinyWaveformPreview  = "PWV2"
	CodeWaveformDetail       = "PWV3"
	CodeColorWaveformPreview = "PWV4"
	CodeColorWaveformDetail  = "PWV5"
	CodeThreeBandPreview     = "PWV6"
	CodeThreeBandDetail      = "PWV7"
	CodeWaveformColorConfig  = "PWVC"

	codeCuePoint    = "PCPT"
	codeExtCuePoint = "PCP2"
)

// Kind identifies a payload variant.
type Kind int

const (
	KindOpaque Kind = iota
	KindBeatGrid
	KindExtBeatGrid
	KindCueList
	KindExtCueList
	KindPath
	KindVBR
	KindSongStructure
	KindWaveformPreview
	KindTinyWaveformPreview
	KindWaveformDetail
	KindColorWaveformPreview
	KindColorWaveformDetail
	KindThreeBandPreview
	KindThreeBandDetail
	KindWaveformColorConfig
)

type kindInfo struct {
	code      string
	name      string
	headerLen uint32
}

var kinds = [...]kindInfo{
	KindOpaque:               {"", "default", 0},
	KindBeatGrid:             {CodeBeatGrid, "beat_grid", 24},
	KindExtBeatGrid:          {CodeExtBeatGrid, "extended_beat_grid", 56},
	KindCueList:              {CodeCueList, "cue_list", 24},
	KindExtCueList:           {CodeExtCueList, "extended_cue_list", 20},
	KindPath:                 {CodePath, "path", 16},
	KindVBR:                  {CodeVBR, "vbr", 16},
	KindSongStructure:        {CodeSongStructure, "song_structure", 32},
	KindWaveformPreview:      {CodeWaveformPreview, "wf_preview", 20},
	KindTinyWaveformPreview:  {CodeTinyWaveformPreview, "wf_tiny_preview", 20},
	KindWaveformDetail:       {CodeWaveformDetail, "wf_detail", 24},
	KindColorWaveformPreview: {CodeColorWaveformPreview, "wf_color_preview", 24},
	KindColorWaveformDetail:  {CodeColorWaveformDetail, "wf_color_detail", 24},
	KindThreeBandPreview:     {CodeThreeBandPreview, "wf_3band_preview", 20},
	KindThreeBandDetail:      {CodeThreeBandDetail, "wf_3band_detail", 24},
	KindWaveformColorConfig:  {CodeWaveformColorConfig, "wf_color_config", 14},
}

// Code returns the four-character type code, or "" for KindOpaque.
func (k Kind) Code() string {
	if k < 0 || int(k) >= len(kinds) {
		return ""
	}
	return kinds[k].code
}

// String returns the descriptive name, "default" for opaque tags.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return "default"
	}
	return kinds[k].name
}

// KindOf returns the Kind for a type code, or KindOpaque when unknown.
func KindOf(code string) Kind {
	for k := KindBeatGrid; int(k) < len(kinds); k++ {
		if kinds[k].code == code {
			return k
		}
	}
	return KindOpaque
}

// expectedHeaderLen is the len_header every known tag is written with.
func (k Kind) expectedHeaderLen() uint32 {
	return kinds[k].headerLen
}
