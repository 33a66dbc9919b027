package domain

import (
	"encoding/json"
	"time"
)

// Span/Profile give the dashboard's latency panel per-request timing
// without pulling in a tracing stack.
type Span struct {
	Name    string `json:"name"`
	startTs time.Time

	Elapsed *int64 `json:"elapsed"`
}

const ContextProfileKey = "performanceProfile"

type Profile struct {
	Spans   []*Span `json:"spans"`
	startTs time.Time
	TotalMs *int64 `json:"totalMs"`
}

func NewProfile() (*Profile, func()) {
	p := &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}
	return p, p.End
}

func (p *Profile) End() {
	if p.TotalMs == nil {
		t := time.Since(p.startTs).Milliseconds()
		p.TotalMs = &t
	}
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
}

// StartNewSpan ends the previous span and begins a new one. Not thread
// safe - a profile belongs to one request.
func (p *Profile) StartNewSpan(name string) (*Span, func()) {
	s := &Span{
		Name:    name,
		startTs: time.Now(),
	}
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	p.Spans = append(p.Spans, s)
	return s, s.End
}

func (p *Profile) ToJsonBytes() ([]byte, error) {
	return json.Marshal(p)
}
