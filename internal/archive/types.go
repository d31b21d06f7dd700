package archive

import (
	"bytes"
	"encoding/json"
)

// entry is one element of the export array.
type entry struct {
	Tweet tweet `json:"tweet"`
}

type tweet struct {
	ID                 string          `json:"id_str"`
	FullText           string          `json:"full_text"`
	CreatedAt          string          `json:"created_at"`
	InReplyToUserIDStr json.RawMessage `json:"in_reply_to_user_id_str"`
	InReplyToUserID    json.RawMessage `json:"in_reply_to_user_id"`
	Entities           entities        `json:"entities"`
	ExtendedEntities   entities        `json:"extended_entities"`
}

type entities struct {
	Media []medium `json:"media"`
	URLs  []link   `json:"urls"`
}

type medium struct {
	MediaURL string `json:"media_url"`
}

type link struct {
	ExpandedURL string `json:"expanded_url"`
}

// isReply reports whether either reply field is present and non-null. The
// export writes ids as strings, but numbers are accepted too.
func (t tweet) isReply() bool {
	return present(t.InReplyToUserIDStr) || present(t.InReplyToUserID)
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// mediaRefs prefers extended entities, which list every attachment.
func (t tweet) mediaRefs() []medium {
	if len(t.ExtendedEntities.Media) > 0 {
		return t.ExtendedEntities.Media
	}
	return t.Entities.Media
}
