// Package twiml renders the small subset of Twilio voice markup this service
// emits: speak text, play a stored asset, collect speech, hang up.
package twiml

import (
	"encoding/xml"
	"fmt"
)

// Verb is one instruction inside a markup response.
type Verb interface {
	verb()
}

// Say instructs the provider to speak text with its own voice engine.
type Say struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

// Play instructs the provider to fetch and play an audio URL.
type Play struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

// Gather instructs the provider to capture speech and post the transcript to
// the action URL.
type Gather struct {
	XMLName xml.Name `xml:"Gather"`
	Input   string   `xml:"input,attr"`
	Timeout int      `xml:"timeout,attr"`
	Action  string   `xml:"action,attr"`
	Method  string   `xml:"method,attr"`
	Verbs   []Verb
}

// Hangup terminates the call.
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

func (Say) verb()    {}
func (Play) verb()   {}
func (Gather) verb() {}
func (Hangup) verb() {}

// Document is an ordered sequence of verbs forming one markup response.
type Document struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []Verb
}

// NewDocument creates an empty response document.
func NewDocument() *Document {
	return &Document{}
}

// Append adds verbs in order.
func (d *Document) Append(verbs ...Verb) *Document {
	d.Verbs = append(d.Verbs, verbs...)
	return d
}

// Render serializes the document with an XML header.
func (d *Document) Render() (string, error) {
	body, err := xml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("twiml: marshal: %w", err)
	}
	return xml.Header + string(body), nil
}
