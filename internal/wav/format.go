package wav

import (
	"fmt"
	"sort"
	"strings"
)

// FormatTag is the 16-bit wFormatTag field of a WAVE fmt chunk
type FormatTag uint16

// Format tags from the public Microsoft RIFF documentation
const (
	FormatUnknown          FormatTag = 0x0000
	FormatPCM              FormatTag = 0x0001
	FormatADPCM            FormatTag = 0x0002
	FormatIEEEFloat        FormatTag = 0x0003
	FormatALaw             FormatTag = 0x0006
	FormatMuLaw            FormatTag = 0x0007
	FormatOKIADPCM         FormatTag = 0x0010
	FormatIMAADPCM         FormatTag = 0x0011
	FormatDigiSTD          FormatTag = 0x0015
	FormatDigiFIX          FormatTag = 0x0016
	FormatDolbyAC2         FormatTag = 0x0030
	FormatGSM610           FormatTag = 0x0031
	FormatRockwellADPCM    FormatTag = 0x003b
	FormatRockwellDigitalk FormatTag = 0x003c
	FormatG721ADPCM        FormatTag = 0x0040
	FormatG728CELP         FormatTag = 0x0041
	FormatMPEG             FormatTag = 0x0050
	FormatMPEGLayer3       FormatTag = 0x0055
	FormatG726ADPCM        FormatTag = 0x0064
	FormatG722ADPCM        FormatTag = 0x0065
	FormatExtensible       FormatTag = 0xfffe
)

var formatNames = map[FormatTag]string{
	FormatUnknown:          "UNKNOWN",
	FormatPCM:              "PCM",
	FormatADPCM:            "ADPCM",
	FormatIEEEFloat:        "IEEE_FLOAT",
	FormatALaw:             "ALAW",
	FormatMuLaw:            "MULAW",
	FormatOKIADPCM:         "OKI_ADPCM",
	FormatIMAADPCM:         "IMA_ADPCM",
	FormatDigiSTD:          "DIGISTD",
	FormatDigiFIX:          "DIGIFIX",
	FormatDolbyAC2:         "DOLBY_AC2",
	FormatGSM610:           "GSM610",
	FormatRockwellADPCM:    "ROCKWELL_ADPCM",
	FormatRockwellDigitalk: "ROCKWELL_DIGITALK",
	FormatG721ADPCM:        "G721_ADPCM",
	FormatG728CELP:         "G728_CELP",
	FormatMPEG:             "MPEG",
	FormatMPEGLayer3:       "MPEGLAYER3",
	FormatG726ADPCM:        "G726_ADPCM",
	FormatG722ADPCM:        "G722_ADPCM",
	FormatExtensible:       "EXTENSIBLE",
}

// String returns the table name of the tag, or its hex code if it has none
func (f FormatTag) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint16(f))
}

// Known reports whether the tag has an entry in the table
func (f FormatTag) Known() bool {
	_, ok := formatNames[f]
	return ok
}

// LookupFormat returns the tag for a table name. Matching ignores case and
// an optional WAVE_FORMAT_ prefix.
func LookupFormat(name string) (FormatTag, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "WAVE_FORMAT_")
	for tag, n := range formatNames {
		if n == name {
			return tag, true
		}
	}
	return 0, false
}

// FormatTags returns every tag in the table in ascending order
func FormatTags() []FormatTag {
	tags := make([]FormatTag, 0, len(formatNames))
	for tag := range formatNames {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
