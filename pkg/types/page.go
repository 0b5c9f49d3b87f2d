// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PageText is the extracted text of one page.
type PageText struct {
	// Number is the 1-based page number in document order.
	Number int `json:"number" yaml:"number"`

	// Text is the extracted plain text. Empty when the page has no text layer.
	Text string `json:"text" yaml:"text"`
}
