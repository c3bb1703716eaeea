//
// SPDX-License-Identifier: BSD-3-Clause
//
// Adapted from: https://github.com/ooni/probe-engine/blob/v0.23.0/netx/resolver/encoder.go
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/dns/dnscore/query.go
//

package dnswire

import (
	"strings"

	"github.com/bassosimone/wirecodec/wire"
	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

const (
	// QueryFlagBlockLengthPadding enables using RFC8467 block length padding.
	QueryFlagBlockLengthPadding = 1 << iota

	// QueryFlagDNSSec enables requesting for DNSSEC signatures.
	QueryFlagDNSSec
)

const (
	// QueryMaxResponseSizeUDP is the maximum response size when using UDP
	// and is consistent with what the standard library uses.
	QueryMaxResponseSizeUDP = 1232

	// QueryMaxResponseSizeTCP is the maximum response size when using TCP
	// and is consistent with what the standard library uses.
	QueryMaxResponseSizeTCP = 4096
)

const (
	// ednsDOBit is the DNSSEC-OK bit inside the OPT pseudo-RR TTL field.
	ednsDOBit = 1 << 15

	// ednsOptionPadding is the EDNS0 padding option code from RFC7830.
	ednsOptionPadding = 12
)

// Query is a DNS query.
//
// Construct using [NewQuery] or set the MANDATORY fields.
type Query struct {
	// Flags OPTIONALLY modify the query flags.
	//
	// Use [QueryFlagBlockLengthPadding] and [QueryFlagDNSSec].
	Flags uint16

	// ID is the OPTIONAL query ID.
	ID uint16

	// MaxSize is the OPTIONAL maximum response size
	// to include in the query using EDNS(0).
	//
	// Use [QueryMaxResponseSizeUDP] or [QueryMaxResponseSizeTCP].
	MaxSize uint16

	// Name is the MANDATORY domain name to query.
	Name string

	// Type is the query type.
	Type uint16
}

// NewQuery constructs a new [*Query] with safe defaults.
//
// By default, the query uses a randomized ID, requests recursion, and uses
// [QueryMaxResponseSizeUDP] as the EDNS(0) maximum response size.
func NewQuery(name string, qtype uint16) *Query {
	return &Query{
		Name:    name,
		Type:    qtype,
		Flags:   0,
		ID:      dns.Id(),
		MaxSize: QueryMaxResponseSizeUDP,
	}
}

// Clone returns a deep copy of the query.
func (q *Query) Clone() *Query {
	return &Query{
		Name:    q.Name,
		Type:    q.Type,
		Flags:   q.Flags,
		ID:      q.ID,
		MaxSize: q.MaxSize,
	}
}

// NewMessage creates a new [*Message] from the [*Query].
func (q *Query) NewMessage() (*Message, error) {
	// IDNA encode the domain name.
	punyName, err := idna.Lookup.ToASCII(q.Name)
	if err != nil {
		return nil, err
	}

	// The codec represents names without the trailing root dot.
	punyName = strings.TrimSuffix(punyName, ".")

	// Create the query message.
	msg := &Message{ID: q.ID}
	msg.SetRD(true)
	msg.Questions = []Question{{
		Name:  punyName,
		Type:  q.Type,
		Class: ClassIN,
	}}

	// Set the EDNS(0) query options: the OPT pseudo-RR carries the
	// maximum response size in its class field and the DO flag in the
	// top bit of its TTL field.
	opt := ResourceRecord{Name: "", Type: TypeOPT, Class: q.MaxSize}
	if q.Flags&QueryFlagDNSSec != 0 {
		opt.TTL |= ednsDOBit
	}
	msg.Additional = []ResourceRecord{opt}

	// Clients SHOULD pad queries to the closest multiple of
	// 128 octets RFC8467#section-4.1. We inflate the query
	// length by the size of the option header (i.e. 4 octets)
	// before computing the remainder.
	if q.Flags&QueryFlagBlockLengthPadding != 0 {
		encoded, err := msg.Encode()
		if err != nil {
			return nil, err
		}
		const desiredSize = 128
		remainder := (desiredSize - (len(encoded)+4)%desiredSize) % desiredSize
		pad := &wire.Writer{}
		pad.Uint16(ednsOptionPadding)
		pad.Uint16(uint16(remainder))
		pad.Write(make([]byte, remainder))
		msg.Additional[0].Raw = pad.Bytes()
	}

	return msg, nil
}
