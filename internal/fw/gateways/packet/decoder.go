// Package packet turns raw IP packets into endpoints the firewall can decide on.
package packet

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/haukened/rr-fw/internal/fw/domain"
)

var (
	// ErrUnsupportedPacket is returned for packets without an IPv4/IPv6 layer
	// or without a TCP/UDP layer.
	ErrUnsupportedPacket = errors.New("unsupported packet")
	// ErrMalformedPacket is returned when the packet cannot be decoded.
	ErrMalformedPacket = errors.New("malformed packet")
)

// Decoder extracts the source address and destination port of a packet.
type Decoder struct {
	first gopacket.LayerType
}

// NewDecoder returns a Decoder for packets starting at first, typically
// layers.LayerTypeEthernet, layers.LayerTypeIPv4 or layers.LayerTypeIPv6.
func NewDecoder(first gopacket.LayerType) *Decoder {
	return &Decoder{first: first}
}

// Decode returns the endpoint a rule would be matched against: the packet's
// source IP and its TCP or UDP destination port. Only link, network and
// transport layers are decoded; whatever the transport carries is never
// inspected, so an odd payload on a well-known port cannot fail the packet.
func (d *Decoder) Decode(data []byte) (domain.Endpoint, error) {
	var (
		eth     layers.Ethernet
		ip4     layers.IPv4
		ip6     layers.IPv6
		tcp     layers.TCP
		udp     layers.UDP
		payload gopacket.Payload
	)
	parser := gopacket.NewDecodingLayerParser(d.first, &eth, &ip4, &ip6, &tcp, &udp, &payload)
	parser.IgnoreUnsupported = true

	decoded := make([]gopacket.LayerType, 0, 4)
	if err := parser.DecodeLayers(data, &decoded); err != nil {
		return domain.Endpoint{}, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}

	var (
		src  string
		port = -1
	)
	for _, lt := range decoded {
		switch lt {
		case layers.LayerTypeIPv4:
			src = ip4.SrcIP.String()
		case layers.LayerTypeIPv6:
			src = ip6.SrcIP.String()
		case layers.LayerTypeTCP:
			port = int(tcp.DstPort)
		case layers.LayerTypeUDP:
			port = int(udp.DstPort)
		}
	}

	if src == "" {
		return domain.Endpoint{}, fmt.Errorf("%w: no IP layer", ErrUnsupportedPacket)
	}
	if port < 0 {
		return domain.Endpoint{}, fmt.Errorf("%w: no TCP or UDP layer", ErrUnsupportedPacket)
	}
	return domain.Endpoint{Address: src, Port: port}, nil
}

// Decider makes allow/block decisions; *domain.RuleSet and
// *firewall.Firewall both satisfy it.
type Decider interface {
	Decide(address string, port int) domain.Decision
}

// Classifier decodes packets and decides on them.
type Classifier struct {
	Decoder *Decoder
	Decider Decider
}

// Decide decodes data and returns the decision for its endpoint. Packets
// that cannot be decoded return an error and Block.
func (c *Classifier) Decide(data []byte) (domain.Decision, error) {
	ep, err := c.Decoder.Decode(data)
	if err != nil {
		return domain.Block, err
	}
	return c.Decider.Decide(ep.Address, ep.Port), nil
}
