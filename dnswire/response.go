//
// SPDX-License-Identifier: BSD-3-Clause
//
// Adapted from: https://github.com/ooni/probe-engine/blob/v0.23.0/netx/resolver/decoder.go
// Adapted from: https://github.com/golang/go/blob/go1.21.10/src/net/dnsclient_unix.go
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/dns/dnscore/response.go
//

package dnswire

import (
	"errors"
	"fmt"
	"strings"
)

// Additional errors emitted by [ValidateResponseForQuery].
var (
	// ErrInvalidQuery means that the query does not contain a single question.
	ErrInvalidQuery = errors.New("invalid query")
)

// ValidateResponseForQuery validates a DNS response for a given query.
// On success it returns the single validated question from the query.
func ValidateResponseForQuery(query, resp *Message) (Question, error) {
	// 1. make sure the message is actually a response
	if !resp.QR() {
		return Question{}, ErrInvalidResponse
	}

	// 2. make sure the response ID matches the query ID
	if resp.ID != query.ID {
		return Question{}, ErrInvalidResponse
	}

	// 3. make sure the query and the response contains a question
	if len(query.Questions) != 1 {
		return Question{}, ErrInvalidQuery
	}
	if len(resp.Questions) != 1 {
		return Question{}, ErrInvalidResponse
	}
	resp0 := resp.Questions[0]
	query0 := query.Questions[0]

	// 4. make sure the question name is correct
	if !responseEqualASCIIName(resp0.Name, query0.Name) {
		return Question{}, ErrInvalidResponse
	}
	if resp0.Class != query0.Class {
		return Question{}, ErrInvalidResponse
	}
	if resp0.Type != query0.Type {
		return Question{}, ErrInvalidResponse
	}
	return query0, nil
}

// SPDX-License-Identifier: BSD-3-Clause
//
// Borrowed from Go src/net package.
func responseEqualASCIIName(x, y string) bool {
	if len(x) != len(y) {
		return false
	}
	for i := 0; i < len(x); i++ {
		a := x[i]
		b := y[i]
		if 'A' <= a && a <= 'Z' {
			a += 0x20
		}
		if 'A' <= b && b <= 'Z' {
			b += 0x20
		}
		if a != b {
			return false
		}
	}
	return true
}

func responseCanonicalName(name string) string {
	return strings.ToLower(name)
}

// These error messages use the same suffixes used by the Go standard library.
var (
	// ErrCannotUnmarshalMessage indicates that we cannot unmarshal a DNS message.
	ErrCannotUnmarshalMessage = errors.New("cannot unmarshal DNS message")

	// ErrInvalidResponse means that the response is not a response message
	// or does not contain a single question matching the query.
	ErrInvalidResponse = errors.New("invalid DNS response")

	// ErrNoName indicates that the server response code is NXDOMAIN.
	ErrNoName = errors.New("no such host")

	// ErrServerMisbehaving indicates that the server response code is
	// neither 0, nor NXDOMAIN, nor SERVFAIL.
	ErrServerMisbehaving = errors.New("server misbehaving")

	// ErrServerTemporarilyMisbehaving indicates that the server answer is SERVFAIL.
	//
	// The error message is same as [ErrServerMisbehaving] for compatibility with the
	// Go standard library, which assigns the same error string to both errors.
	ErrServerTemporarilyMisbehaving = errors.New("server misbehaving")

	// ErrNoData indicates that there is no pertinent answer in the response.
	ErrNoData = errors.New("no answer from DNS server")
)

// ResponseErrorFromRCODE maps an RCODE inside a valid DNS response
// to an error string using a suffix compatible with the error strings
// returned by [*net.Resolver].
//
// For example, if a domain does not exist, the error
// will use the "no such host" suffix.
//
// If the RCODE is zero, this function returns nil.
//
// Before invoking this function, make sure the response is valid
// for the request by calling [ValidateResponseForQuery].
func ResponseErrorFromRCODE(resp *Message) error {
	// 1. handle NXDOMAIN case by mapping it to EAI_NONAME
	if resp.Rcode() == RcodeNXDomain {
		return ErrNoName
	}

	// 2. handle the case of lame referral by mapping it to EAI_NODATA
	if resp.Rcode() == RcodeNoError &&
		!resp.AA() &&
		!resp.RA() &&
		len(resp.Answers) == 0 {
		return ErrNoData
	}

	// 3. handle any other error by mapping to EAI_FAIL
	if resp.Rcode() != RcodeNoError {
		if resp.Rcode() == RcodeServFail {
			return ErrServerTemporarilyMisbehaving
		}
		return ErrServerMisbehaving
	}
	return nil
}

// ResponseExtractValidAnswers extracts valid RRs from the response considering
// the DNS question that was asked. Before invoking this function, make sure
// the response is valid using [ValidateResponseForQuery] and it does not contain
// errors using [ResponseErrorFromRCODE].
//
// The list of valid RRs is returned in the same order as they appear
// in the response message. If the response does not contain any valid
// RRs, this function returns [ErrNoData].
func ResponseExtractValidAnswers(q0 Question, resp *Message) ([]ResourceRecord, error) {
	// 1. Build CNAME chain starting from the query name.
	// RFC 1034 section 4.3.1 says that "the recursive response to a query
	// will be... The answer to the query, possibly preface by one or more
	// CNAME RRs that specify aliases encountered on the way to an answer."
	//
	// We need to validate that CNAMEs form a proper chain and track all
	// valid names in that chain. We try to be careful and account for the
	// names potentially being not canonicalized in the response.
	validNames := make(map[string]bool)
	validNames[responseCanonicalName(q0.Name)] = true

	currentName := q0.Name
	for _, answer := range resp.Answers {
		if answer.Type != TypeCNAME {
			continue
		}
		target, ok := answer.Data.(NameRef)
		if !ok {
			continue
		}
		// CNAME must match the current name in the chain
		if responseEqualASCIIName(currentName, answer.Name) && answer.Class == q0.Class {
			currentName = responseCanonicalName(target.Name)
			validNames[currentName] = true
		}
	}

	// 2. Build list of valid answers: CNAMEs that are part of the chain,
	// plus any other RRs that match a name in the chain.
	valid := []ResourceRecord{}
	for _, answer := range resp.Answers {
		// Check if this RR's name is part of the valid chain
		if !validNames[responseCanonicalName(answer.Name)] {
			continue
		}

		// Check class matches
		if q0.Class != answer.Class {
			continue
		}

		// Note: there may be several RR types for a given query so we
		// should not check for the type here
		valid = append(valid, answer)
	}

	// 3. Handle the case of no valid answers
	if len(valid) < 1 {
		return nil, ErrNoData
	}

	// 4. Return the list.
	return valid, nil
}

// Response is a DNS response.
//
// Construct a new instance using [ParseResponse].
type Response struct {
	// Query is the original query message.
	Query *Message

	// Response is the response message.
	Response *Message

	// ValidRRs contains the valid RRs for the query.
	ValidRRs []ResourceRecord
}

// ParseResponse returns a [*Response] given a query and a response message
// or an error if the response message is not valid for the query.
func ParseResponse(query, resp *Message) (*Response, error) {
	q0, err := ValidateResponseForQuery(query, resp)
	if err != nil {
		return nil, err
	}

	if err := ResponseErrorFromRCODE(resp); err != nil {
		return nil, err
	}

	rrs, err := ResponseExtractValidAnswers(q0, resp)
	if err != nil {
		return nil, err
	}

	rp := &Response{
		Query:    query,
		Response: resp,
		ValidRRs: rrs,
	}
	return rp, nil
}

// ParseResponseBytes decodes a raw response and validates it for the
// query like [ParseResponse] does. Decode failures are reported as
// [ErrCannotUnmarshalMessage].
func ParseResponseBytes(query *Message, raw []byte) (*Response, error) {
	resp, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCannotUnmarshalMessage, err.Error())
	}
	return ParseResponse(query, resp)
}

// RecordsA returns all the A records in the response.
func (r *Response) RecordsA() ([]string, error) {
	out := make([]string, 0, len(r.ValidRRs))
	for _, rr := range r.ValidRRs {
		if rr.Type != TypeA {
			continue
		}
		if data, ok := rr.Data.(IPAddr); ok {
			out = append(out, data.Addr.String())
		}
	}
	if len(out) < 1 {
		return nil, ErrNoData
	}
	return out, nil
}

// RecordsAAAA returns all the AAAA records in the response.
func (r *Response) RecordsAAAA() ([]string, error) {
	out := make([]string, 0, len(r.ValidRRs))
	for _, rr := range r.ValidRRs {
		if rr.Type != TypeAAAA {
			continue
		}
		if data, ok := rr.Data.(IPAddr); ok {
			out = append(out, data.Addr.String())
		}
	}
	if len(out) < 1 {
		return nil, ErrNoData
	}
	return out, nil
}

// RecordsCNAME returns all the CNAME targets in the response.
func (r *Response) RecordsCNAME() ([]string, error) {
	out := make([]string, 0, len(r.ValidRRs))
	for _, rr := range r.ValidRRs {
		if rr.Type != TypeCNAME {
			continue
		}
		if data, ok := rr.Data.(NameRef); ok {
			out = append(out, data.Name)
		}
	}
	if len(out) < 1 {
		return nil, ErrNoData
	}
	return out, nil
}

// RecordFirstCNAME returns the first CNAME in the response.
func (r *Response) RecordFirstCNAME() (string, error) {
	for _, rr := range r.ValidRRs {
		if rr.Type != TypeCNAME {
			continue
		}
		if data, ok := rr.Data.(NameRef); ok {
			return data.Name, nil
		}
	}
	return "", ErrNoData
}
