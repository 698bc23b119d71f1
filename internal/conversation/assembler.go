// ABOUTME: Builds the ordered turn sequence forwarded to the generative model
// ABOUTME: System prompt, then history, then attachment summary, then the new message

package conversation

import (
	"fmt"
	"strings"

	"github.com/hearthside/emberchat/internal/store"
)

// Turn roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
	RoleModel  = "model"
)

// attachmentPreamble introduces the synthetic turn listing attached files.
const attachmentPreamble = "These files are attached to this chat and should be considered if relevant: "

// Turn is one role-tagged unit of text in the model context.
type Turn struct {
	Role string
	Text string
}

// Assemble builds the ordered context for the model. The ordering is a
// strict contract; it determines exactly what the model sees:
//
//  1. the chat's system prompt, if any, as a system turn
//  2. stored history in chronological order; the model role is kept,
//     every other stored role is normalized to user
//  3. if any attachments exist, one synthetic user turn listing each
//     attachment's name and MIME type
//  4. the new message as a final user turn
func Assemble(systemPrompt string, history []*store.Message, attachments []*store.Attachment, newMessage string) []Turn {
	turns := make([]Turn, 0, len(history)+3)

	if systemPrompt != "" {
		turns = append(turns, Turn{Role: RoleSystem, Text: systemPrompt})
	}

	for _, msg := range history {
		role := RoleUser
		if msg.Role == store.RoleModel {
			role = RoleModel
		}
		turns = append(turns, Turn{Role: role, Text: msg.Content})
	}

	if len(attachments) > 0 {
		turns = append(turns, Turn{Role: RoleUser, Text: attachmentPreamble + describeAttachments(attachments)})
	}

	turns = append(turns, Turn{Role: RoleUser, Text: newMessage})

	return turns
}

// describeAttachments renders "name (mime)" pairs, comma-separated,
// in stored order.
func describeAttachments(attachments []*store.Attachment) string {
	descs := make([]string, len(attachments))
	for i, att := range attachments {
		descs[i] = fmt.Sprintf("%s (%s)", att.Name, att.MimeType)
	}
	return strings.Join(descs, ", ")
}
