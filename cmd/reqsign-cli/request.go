package main

import (
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// requestDescription is the JSON shape the sign subcommand and the serve
// endpoint both accept: a transport-agnostic request plus an optional
// presign duration, mirroring reqsign.RequestHead's own fields.
type requestDescription struct {
	Method           string              `json:"method"`
	Scheme           string              `json:"scheme"`
	Host             string              `json:"host"`
	Path             string              `json:"path"`
	Query            map[string][]string `json:"query,omitempty"`
	Headers          map[string][]string `json:"headers,omitempty"`
	PresignExpirySec *int                `json:"presign_expiry_seconds,omitempty"`
}

func (d *requestDescription) toHead() *reqsign.RequestHead {
	head := reqsign.NewRequestHead(d.Method, d.Scheme, d.Host, d.Path)
	for k, vs := range d.Query {
		for _, v := range vs {
			head.Query.Add(k, v)
		}
	}
	for k, vs := range d.Headers {
		for _, v := range vs {
			head.Header.Add(k, v)
		}
	}
	return head
}

func (d *requestDescription) expiresIn() *time.Duration {
	if d.PresignExpirySec == nil {
		return nil
	}
	dur := time.Duration(*d.PresignExpirySec) * time.Second
	return &dur
}

// signedResult is what the sign subcommand and serve endpoint return.
type signedResult struct {
	URL     string              `json:"url"`
	Headers map[string][]string `json:"headers"`
	Query   map[string][]string `json:"query"`
}

func toResult(head *reqsign.RequestHead) signedResult {
	return signedResult{
		URL:     head.URL(),
		Headers: map[string][]string(head.Header),
		Query:   map[string][]string(head.Query),
	}
}
