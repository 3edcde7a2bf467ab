// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/polysearch/core"
)

// MarshalPayload serializes a Payload to bytes.
func MarshalPayload(p *core.Payload) []byte {
	buf := make([]byte, payloadSize(p))
	n := ord.String.Marshal(p.Query, buf)
	n += ord.String.Marshal(p.Language, buf[n:])
	n += ord.Bool.Marshal(p.NoResults, buf[n:])
	n += ord.String.Marshal(p.Message, buf[n:])
	n += varint.Int.Marshal(len(p.Entries), buf[n:])
	for _, e := range p.Entries {
		n += varint.Int.Marshal(e.Rank, buf[n:])
		n += ord.String.Marshal(e.Title, buf[n:])
		n += ord.String.Marshal(e.Link, buf[n:])
		n += ord.String.Marshal(e.Snippet, buf[n:])
		n += varint.Int.Marshal(int(e.Source), buf[n:])
	}
	n += ord.String.Marshal(p.Summary, buf[n:])
	ord.String.Marshal(p.Answer, buf[n:])
	return buf
}

func payloadSize(p *core.Payload) int {
	size := ord.String.Size(p.Query) +
		ord.String.Size(p.Language) +
		ord.Bool.Size(p.NoResults) +
		ord.String.Size(p.Message) +
		varint.Int.Size(len(p.Entries))
	for _, e := range p.Entries {
		size += varint.Int.Size(e.Rank) +
			ord.String.Size(e.Title) +
			ord.String.Size(e.Link) +
			ord.String.Size(e.Snippet) +
			varint.Int.Size(int(e.Source))
	}
	return size + ord.String.Size(p.Summary) + ord.String.Size(p.Answer)
}

// UnmarshalPayload deserializes a Payload from bytes.
func UnmarshalPayload(data []byte) (*core.Payload, error) {
	d := &decoder{data: data}
	p := &core.Payload{
		Query:     d.string(),
		Language:  d.string(),
		NoResults: d.bool(),
		Message:   d.string(),
	}

	count := d.int()
	if d.err == nil && (count < 0 || count > len(data)-d.n) {
		d.err = fmt.Errorf("%w: entry count %d", ErrCorruptPayload, count)
	}
	if d.err == nil && count > 0 {
		p.Entries = make([]core.Entry, count)
		for i := range p.Entries {
			p.Entries[i] = core.Entry{
				Rank:    d.int(),
				Title:   d.string(),
				Link:    d.string(),
				Snippet: d.string(),
				Source:  core.Source(d.int()),
			}
		}
	}

	p.Summary = d.string()
	p.Answer = d.string()

	if d.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, d.err)
	}
	return p, nil
}

// decoder reads fields in order and keeps the first error.
type decoder struct {
	data []byte
	n    int
	err  error
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.data[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) bool() bool {
	if d.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(d.data[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) int() int {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(d.data[d.n:])
	d.n += n
	d.err = err
	return v
}
