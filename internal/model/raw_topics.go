package model

import (
	"bytes"
	"encoding/json"
)

// TopicsKind tags the shape a log's topics arrived in.
type TopicsKind uint8

const (
	// TopicsAbsent means the field was missing or null.
	TopicsAbsent TopicsKind = iota
	// TopicsList is an ordered sequence of topic strings.
	TopicsList
	// TopicsText is a single string: a JSON array text or concatenated topic hex.
	TopicsText
	// TopicsOther is any other JSON value.
	TopicsOther
)

func (k TopicsKind) String() string {
	switch k {
	case TopicsAbsent:
		return "absent"
	case TopicsList:
		return "list"
	case TopicsText:
		return "text"
	default:
		return "other"
	}
}

// RawTopics holds the topics field of a log exactly as the source encoded it.
type RawTopics struct {
	Kind  TopicsKind
	List  []string
	Text  string
	Other json.RawMessage
}

// TopicsFromList wraps an ordered topic sequence.
func TopicsFromList(list []string) RawTopics {
	if list == nil {
		list = []string{}
	}
	return RawTopics{Kind: TopicsList, List: list}
}

// TopicsFromText wraps a single topics string.
func TopicsFromText(text string) RawTopics {
	return RawTopics{Kind: TopicsText, Text: text}
}

// MarshalJSON encodes the topics back into their original shape.
func (t RawTopics) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TopicsList:
		if t.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(t.List)
	case TopicsText:
		return json.Marshal(t.Text)
	case TopicsOther:
		if len(t.Other) == 0 {
			return []byte("null"), nil
		}
		return t.Other, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON classifies the incoming value without validating topic contents.
func (t *RawTopics) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = RawTopics{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*t = TopicsFromList(JSONElementsToStrings(items))
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*t = TopicsFromText(text)
	default:
		*t = RawTopics{Kind: TopicsOther, Other: append(json.RawMessage(nil), trimmed...)}
	}
	return nil
}

// JSONElementsToStrings renders array elements as strings. String elements are
// unquoted; any other element keeps its JSON text.
func JSONElementsToStrings(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, scalarText(item))
	}
	return out
}

func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
