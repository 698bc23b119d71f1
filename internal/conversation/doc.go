// Package conversation builds the ordered context array sent to the
// generative model: system prompt, chronological history, a synthetic
// turn describing attachments, then the new message. The ordering is a
// compatibility contract and must not change.
package conversation
