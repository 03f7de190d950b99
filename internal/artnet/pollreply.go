package artnet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

const (
	// PollReplySize is the length of an encoded ArtPollReply.
	PollReplySize = 239

	// OpPollReply is the ArtPollReply opcode.
	OpPollReply uint16 = 0x2100
	// ProtocolVersion is the Art-Net protocol revision.
	ProtocolVersion uint16 = 14
	// DefaultPort is the Art-Net UDP port (0x1936).
	DefaultPort uint16 = 6454

	shortNameLen  = 18
	longNameLen   = 64
	nodeReportLen = 64
)

// Port type and status codes.
const (
	PortTypeDisabled byte = 0x00
	PortTypeOutput   byte = 0x40
	PortTypeInput    byte = 0x80
	PortTypeIO       byte = 0xC0

	goodData byte = 0x80
)

// Byte offsets inside the reply.
const (
	offID         = 0
	offOpCode     = 8
	offIP         = 10
	offPort       = 14
	offVersion    = 16
	offNetSwitch  = 18
	offSubSwitch  = 19
	offOEM        = 20
	offUBEA       = 22
	offStatus1    = 23
	offESTA       = 24
	offShortName  = 26
	offLongName   = 44
	offNodeReport = 108
	offNumPorts   = 172
	offPortTypes  = 174
	offGoodInput  = 178
	offGoodOutput = 182
	offSwIn       = 186
	offSwOut      = 190
	offSwVideo    = 194
	offSwMacro    = 195
	offSwRemote   = 196
	offSpare      = 197
	offStyle      = 200
	offMAC        = 201
	offBindIP     = 207
	offBindIndex  = 211
	offStatus2    = 212
	offFiller     = 213
)

// ID is the Art-Net packet identifier.
var ID = [8]byte{'A', 'r', 't', '-', 'N', 'e', 't', 0x00}

var (
	ErrShortPacket   = errors.New("packet too short")
	ErrInvalidID     = errors.New("invalid Art-Net ID")
	ErrInvalidOpCode = errors.New("not an ArtPollReply")
)

// NodeIdentity is the network identity of the node.
type NodeIdentity struct {
	IP  [4]byte
	MAC [6]byte
}

// NewNodeIdentity copies ip (IPv4) and mac into an identity. Missing bytes stay zero.
func NewNodeIdentity(ip net.IP, mac net.HardwareAddr) NodeIdentity {
	var id NodeIdentity
	if v4 := ip.To4(); v4 != nil {
		copy(id.IP[:], v4)
	}
	copy(id.MAC[:], mac)
	return id
}

// NodeMetadata is the descriptive part of the reply.
type NodeMetadata struct {
	OEM              uint16
	ESTAManufacturer uint16
	Status1          uint8
	Status2          uint8
	ShortName        string // up to 17 bytes
	LongName         string // up to 63 bytes
	NodeReport       string // up to 63 bytes
	// LegacySwIn is reported when the mapping has no ports at all.
	LegacySwIn [MaxPorts]uint8
}

// DefaultNodeMetadata returns OemUnknown, no ESTA code and sACN capable status.
func DefaultNodeMetadata() NodeMetadata {
	return NodeMetadata{
		OEM:     0x00FF,
		Status2: 0x08,
	}
}

// PortTypeFor returns the PortTypes code for the given capability.
func PortTypeFor(input, output bool) byte {
	switch {
	case input && output:
		return PortTypeIO
	case input:
		return PortTypeInput
	case output:
		return PortTypeOutput
	default:
		return PortTypeDisabled
	}
}

// EncodePollReply serializes an ArtPollReply. Text fields are truncated to fit.
//
// NetSwitch/SubSwitch come from the primary port; ports of other net/subnet
// groups keep their own SwIn/SwOut nibbles under that header.
func EncodePollReply(id NodeIdentity, m PortMapping, md NodeMetadata) []byte {
	b := make([]byte, PollReplySize)

	copy(b[offID:], ID[:])
	binary.LittleEndian.PutUint16(b[offOpCode:], OpPollReply)
	copy(b[offIP:offIP+4], id.IP[:])
	binary.LittleEndian.PutUint16(b[offPort:], DefaultPort)
	binary.BigEndian.PutUint16(b[offVersion:], ProtocolVersion)

	if primary, ok := m.Primary(); ok {
		b[offNetSwitch] = primary.Address.Net() & 0x7F
		b[offSubSwitch] = primary.Address.Subnet() & 0x0F
	}

	binary.BigEndian.PutUint16(b[offOEM:], md.OEM)
	b[offUBEA] = 0 // UBEA not programmed
	b[offStatus1] = md.Status1
	binary.LittleEndian.PutUint16(b[offESTA:], md.ESTAManufacturer)

	putText(b[offShortName:offShortName+shortNameLen], md.ShortName)
	putText(b[offLongName:offLongName+longNameLen], md.LongName)
	putText(b[offNodeReport:offNodeReport+nodeReportLen], md.NodeReport)

	b[offNumPorts] = 0 // reserved
	b[offNumPorts+1] = uint8(m.Count())

	for i, p := range m.slots {
		if i >= MaxPorts {
			break
		}
		b[offPortTypes+i] = PortTypeFor(p.InputEnabled, p.OutputEnabled)
		if p.InputEnabled {
			b[offGoodInput+i] = goodData
		}
		if p.OutputEnabled {
			b[offGoodOutput+i] = goodData
		}
		b[offSwIn+i] = p.WireIn & 0x0F
		b[offSwOut+i] = p.WireOut & 0x0F
	}
	if m.Count() == 0 {
		for i, sw := range md.LegacySwIn {
			b[offSwIn+i] = sw & 0x0F
		}
	}

	// SwVideo, SwMacro, SwRemote, Spare and Style (StNode) stay zero.
	copy(b[offMAC:offMAC+6], id.MAC[:])
	copy(b[offBindIP:offBindIP+4], id.IP[:])
	b[offBindIndex] = 0
	b[offStatus2] = md.Status2
	// Filler stays zero.

	return b
}

// putText copies s into dst, keeping the last byte as terminator.
func putText(dst []byte, s string) {
	n := len(dst) - 1
	if len(s) < n {
		n = len(s)
	}
	copy(dst, s[:n])
}

// PollReply is a decoded ArtPollReply.
type PollReply struct {
	IP               [4]byte
	Port             uint16
	Version          uint16
	NetSwitch        uint8
	SubSwitch        uint8
	OEM              uint16
	UBEAVersion      uint8
	Status1          uint8
	ESTAManufacturer uint16
	ShortName        string
	LongName         string
	NodeReport       string
	NumPorts         uint16
	PortTypes        [MaxPorts]byte
	GoodInput        [MaxPorts]byte
	GoodOutput       [MaxPorts]byte
	SwIn             [MaxPorts]uint8
	SwOut            [MaxPorts]uint8
	SwVideo          uint8
	SwMacro          uint8
	SwRemote         uint8
	Style            uint8
	MAC              [6]byte
	BindIP           [4]byte
	BindIndex        uint8
	Status2          uint8
}

// DecodePollReply parses an encoded ArtPollReply.
func DecodePollReply(b []byte) (PollReply, error) {
	var r PollReply
	if len(b) < PollReplySize {
		return r, fmt.Errorf("decode poll reply (%d bytes): %w", len(b), ErrShortPacket)
	}
	if string(b[offID:offID+8]) != string(ID[:]) {
		return r, ErrInvalidID
	}
	if op := binary.LittleEndian.Uint16(b[offOpCode:]); op != OpPollReply {
		return r, fmt.Errorf("decode poll reply (opcode %#04x): %w", op, ErrInvalidOpCode)
	}

	copy(r.IP[:], b[offIP:offIP+4])
	r.Port = binary.LittleEndian.Uint16(b[offPort:])
	r.Version = binary.BigEndian.Uint16(b[offVersion:])
	r.NetSwitch = b[offNetSwitch]
	r.SubSwitch = b[offSubSwitch]
	r.OEM = binary.BigEndian.Uint16(b[offOEM:])
	r.UBEAVersion = b[offUBEA]
	r.Status1 = b[offStatus1]
	r.ESTAManufacturer = binary.LittleEndian.Uint16(b[offESTA:])
	r.ShortName = getText(b[offShortName : offShortName+shortNameLen])
	r.LongName = getText(b[offLongName : offLongName+longNameLen])
	r.NodeReport = getText(b[offNodeReport : offNodeReport+nodeReportLen])
	r.NumPorts = binary.BigEndian.Uint16(b[offNumPorts:])
	copy(r.PortTypes[:], b[offPortTypes:offPortTypes+MaxPorts])
	copy(r.GoodInput[:], b[offGoodInput:offGoodInput+MaxPorts])
	copy(r.GoodOutput[:], b[offGoodOutput:offGoodOutput+MaxPorts])
	copy(r.SwIn[:], b[offSwIn:offSwIn+MaxPorts])
	copy(r.SwOut[:], b[offSwOut:offSwOut+MaxPorts])
	r.SwVideo = b[offSwVideo]
	r.SwMacro = b[offSwMacro]
	r.SwRemote = b[offSwRemote]
	r.Style = b[offStyle]
	copy(r.MAC[:], b[offMAC:offMAC+6])
	copy(r.BindIP[:], b[offBindIP:offBindIP+4])
	r.BindIndex = b[offBindIndex]
	r.Status2 = b[offStatus2]
	return r, nil
}

func getText(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// PortAddress returns the 15-bit address the i-th input port reports.
func (r PollReply) PortAddress(i int) UniverseAddress {
	if i < 0 || i >= MaxPorts {
		return UniverseAddress{}
	}
	return NewUniverse(r.NetSwitch, r.SubSwitch, r.SwIn[i])
}
